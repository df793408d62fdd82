// Package webhook handles Twilio's inbound message and status callbacks.
package webhook

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/twilio/twilio-go/twiml"
)

// Engine is the conversation entry point the webhook drives.
type Engine interface {
	Handle(ctx context.Context, customerID, body string) ([]string, error)
}

// Handler turns Twilio webhooks into engine calls and TwiML replies.
type Handler struct {
	engine Engine
}

// New creates the webhook handler.
func New(engine Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes mounts the Twilio callbacks.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/twilio/inbound", h.handleInbound)
	r.Post("/twilio/status", h.handleStatus)
}

func (h *Handler) handleInbound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	from := strings.TrimSpace(r.PostFormValue("From"))
	if from == "" {
		http.Error(w, "From is required", http.StatusBadRequest)
		return
	}

	segments, err := h.engine.Handle(r.Context(), from, r.PostFormValue("Body"))
	if err != nil {
		// The reply already apologizes; the error is only for the logs.
		log.Printf("[webhook] message from %s: %v", from, err)
	}

	verbs := make([]twiml.Element, 0, len(segments))
	for _, segment := range segments {
		verbs = append(verbs, &twiml.MessagingMessage{Body: segment})
	}

	doc, err := twiml.Messages(verbs)
	if err != nil {
		log.Printf("[webhook] rendering twiml: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc)); err != nil {
		log.Printf("[webhook] writing response: %v", err)
	}
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err == nil {
		log.Printf("[webhook] status callback sid=%s status=%s",
			r.PostFormValue("MessageSid"), r.PostFormValue("MessageStatus"))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
