package handler

import (
	"encoding/xml"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/orderbot/internal/bot"
)

// WebhookHandler receives Twilio-style form posts from the inbound message
// gateway and answers with a TwiML reply.
type WebhookHandler struct {
	bot *bot.Bot
}

func NewWebhookHandler(b *bot.Bot) *WebhookHandler {
	return &WebhookHandler{bot: b}
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

func (h *WebhookHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	from := r.FormValue("From")
	if from == "" {
		http.Error(w, "From is required", http.StatusBadRequest)
		return
	}
	body := r.FormValue("Body")

	reply := h.bot.HandleMessage(r.Context(), from, body)

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	if err := xml.NewEncoder(w).Encode(twimlResponse{Message: reply}); err != nil {
		log.Error().Err(err).Msg("handler: failed to encode TwiML response")
	}
}
