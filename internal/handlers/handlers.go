package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"jenga-relay/internal/payment"
)

// maxBodyBytes matches the usual JSON body limit of small web frameworks.
const maxBodyBytes = 100 << 10

// Donator submits donations to the gateway
type Donator interface {
	Donate(ctx context.Context, req payment.DonationRequest) (*payment.Receipt, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	Donations Donator
	Signer    payment.Signer
}

// NewHandler creates a new Handler
func NewHandler(donations Donator, signer payment.Signer) *Handler {
	return &Handler{
		Donations: donations,
		Signer:    signer,
	}
}

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ============== Donation ==============

// Donate authenticates with the gateway and submits a payment for the donor
func (h *Handler) Donate(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	req, err := decodeDonation(w, r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "Error processing donation",
			Error:   err.Error(),
		})
		return
	}

	receipt, err := h.Donations.Donate(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Stringer("kind", payment.KindOf(err)).Msg("donation failed")
		respondJSON(w, http.StatusInternalServerError, envelope{
			Success: false,
			Message: "Error processing donation",
			Error:   err.Error(),
		})
		return
	}

	log.Info().Str("order_reference", receipt.OrderReference).Msg("donation submitted")
	respondJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Donation processed successfully",
		Data:    receipt.Response,
	})
}

// ============== Callback ==============

// Callback verifies a payment status notification from the gateway
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cb := payment.CallbackPayload{
		TransactionID:  q.Get("transactionId"),
		Status:         q.Get("status"),
		Date:           q.Get("date"),
		Desc:           q.Get("desc"),
		Amount:         q.Get("amount"),
		OrderReference: q.Get("orderReference"),
		Hash:           q.Get("hash"),
		ExtraData:      q.Get("extraData"),
	}

	log := zerolog.Ctx(r.Context()).With().Str("order_reference", cb.OrderReference).Logger()

	if !h.Signer.Verify(cb.OrderReference, cb.Amount, cb.Hash) {
		log.Warn().Msg("callback signature mismatch")
		respondJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "Invalid response signature",
		})
		return
	}

	log.Info().Str("transaction_id", cb.TransactionID).Str("status", cb.Status).Msg("callback accepted")
	respondJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Callback received successfully",
		Data:    cb,
	})
}

// ============== Health ==============

// Health reports that the process is serving
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ============== Helper Functions ==============

// decodeDonation reads the JSON body. An empty body yields a zero request.
func decodeDonation(w http.ResponseWriter, r *http.Request) (payment.DonationRequest, error) {
	var req payment.DonationRequest

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return req, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	if !jsoniter.Valid(body) {
		return req, errors.New("request body is not valid JSON")
	}
	if err := jsoniter.Unmarshal(body, &req); err != nil {
		return req, err
	}
	return req, nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	jsoniter.NewEncoder(w).Encode(data)
}
