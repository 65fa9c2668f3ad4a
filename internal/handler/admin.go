package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/orderbot/internal/order"
)

// AdminHandler is the staff trigger surface: list orders and apply manual
// status overrides. Authentication sits in front of it, outside the core.
type AdminHandler struct {
	svc order.Service
}

func NewAdminHandler(svc order.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type updateStatusRequest struct {
	Status      string `json:"status"`
	ConfirmedBy string `json:"confirmed_by"`
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := order.Status(r.URL.Query().Get("status"))
	if status == "" {
		status = order.StatusPending
	}

	orders, err := h.svc.ListByStatus(r.Context(), status)
	if err != nil {
		log.Error().Err(err).Str("status", string(status)).Msg("handler: failed to list orders")
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	confirmedBy := req.ConfirmedBy
	if confirmedBy == "" {
		confirmedBy = order.ConfirmedByStaff
	}

	if err := h.svc.UpdateStatus(r.Context(), id, order.Status(req.Status), confirmedBy); err != nil {
		log.Warn().Err(err).Int64("order_id", id).Str("new_status", req.Status).Msg("handler: failed to update order status")
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"result": "ok"})
}

// MarkDelivered is the one-click staff path: equivalent to an override to
// delivered with the staff actor label, but idempotent.
func (h *AdminHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.svc.MarkDelivered(r.Context(), id, order.ConfirmedByStaff); err != nil {
		log.Warn().Err(err).Int64("order_id", id).Msg("handler: failed to mark order delivered")
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"result": "ok"})
}
