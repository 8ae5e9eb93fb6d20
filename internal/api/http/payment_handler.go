package http

import (
	"errors"
	"io"
	"net/http"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/service"
)

// Stripe caps event payloads well below this.
const maxWebhookBytes = 65536

type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var in service.CheckoutInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	session, err := h.payments.CreateCheckout(r.Context(), PrincipalFromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type webhookResponse struct {
	Received bool                  `json:"received"`
	Outcome  domain.PaymentOutcome `json:"outcome"`
}

// Webhook acknowledges every verified delivery with 200 so the processor stops
// retrying. Bad signatures get 400 before any write; store failures get 500 so
// the delivery is retried.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "failed to read request body"})
		return
	}

	outcome, err := h.payments.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if errors.Is(err, domain.ErrInvalidSignature) {
		logger.Warn("Rejected webhook with invalid signature", "remote", r.RemoteAddr)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, webhookResponse{Received: true, Outcome: outcome})
}
