package api

import (
	"errors"
	"net/http"

	"github.com/walleto/walleto/internal/service"
	"github.com/walleto/walleto/pkg/httpx"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// AuthHandler serves the account lifecycle endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	out, err := h.Auth.Register(r.Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		writeMessage(w, http.StatusConflict, "Email already in use")
		return
	case err != nil:
		writeInternal(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authResponse{
		Token:           out.AccessToken,
		User:            toUserResponse(out.User),
		VerificationURL: out.VerificationURL,
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	err := h.Auth.VerifyEmail(r.Context(), r.PathValue("token"))
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		writeMessage(w, http.StatusBadRequest, "Invalid or expired token")
		return
	case err != nil:
		writeInternal(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Email verified")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	user, token, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		writeInternal(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	err := h.Auth.ForgotPassword(r.Context(), req.Email)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		writeInternal(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password reset email sent")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	err := h.Auth.ResetPassword(r.Context(), r.PathValue("token"), req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		writeMessage(w, http.StatusBadRequest, "Invalid or expired token")
		return
	case err != nil:
		writeInternal(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password reset successful")
}
