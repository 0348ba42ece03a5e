package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"smartwallet-fraud-shield/internal/application/dto"
	paymentapp "smartwallet-fraud-shield/internal/application/payment"
	"smartwallet-fraud-shield/internal/domain/transaction"
	"smartwallet-fraud-shield/internal/domain/wallet"
)

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	processPayment *paymentapp.ProcessPaymentUseCase
	validate       *validator.Validate
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(processPayment *paymentapp.ProcessPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{
		processPayment: processPayment,
		validate:       validator.New(),
	}
}

// Pay handles POST /transaction/pay
func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.processPayment.Execute(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			writeError(w, http.StatusPaymentRequired, "Insufficient balance")
		case errors.Is(err, transaction.ErrMissingUsername),
			errors.Is(err, transaction.ErrMissingMerchant),
			errors.Is(err, transaction.ErrNegativeAmount),
			errors.Is(err, transaction.ErrZeroAmount):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Payment failed: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /transaction/history/{username}
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	resp, err := h.processPayment.History(r.Context(), username, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load history: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
