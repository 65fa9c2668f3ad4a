package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vasiliy-maslov/orderbot/internal/bot"
	"github.com/vasiliy-maslov/orderbot/internal/metrics"
	"github.com/vasiliy-maslov/orderbot/internal/order"
)

func NewRouter(b *bot.Bot, svc order.Service, m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	webhook := NewWebhookHandler(b)
	r.Post("/webhook", webhook.HandleInbound)

	admin := NewAdminHandler(svc)
	r.Route("/admin/orders", func(r chi.Router) {
		r.Get("/", admin.ListOrders)
		r.Post("/{id}/status", admin.UpdateOrderStatus)
		r.Post("/{id}/delivered", admin.MarkDelivered)
	})

	return r
}
