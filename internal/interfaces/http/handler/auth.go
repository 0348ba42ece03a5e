package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	authapp "smartwallet-fraud-shield/internal/application/auth"
	"smartwallet-fraud-shield/internal/application/dto"
	"smartwallet-fraud-shield/internal/domain/wallet"
)

// AuthHandler handles registration and credential HTTP requests
type AuthHandler struct {
	authUseCase *authapp.UseCase
	validate    *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUseCase *authapp.UseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		validate:    validator.New(),
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authUseCase.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "Username already taken")
		case errors.Is(err, wallet.ErrWeakPassword), errors.Is(err, wallet.ErrInvalidUsername):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Registration failed: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authUseCase.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, wallet.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "Login failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authUseCase.ResetPassword(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, wallet.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Password reset failed: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
