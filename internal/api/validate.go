package api

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/walleto/walleto/internal/domain"
	"github.com/walleto/walleto/pkg/httpx"
)

const (
	minNameLen     = 2
	minPasswordLen = 6
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResponse struct {
	Message string       `json:"message"`
	Errors  []fieldError `json:"errors"`
}

func writeValidationErrors(w http.ResponseWriter, errs []fieldError) {
	httpx.WriteJSON(w, http.StatusBadRequest, validationResponse{
		Message: "Validation Error",
		Errors:  errs,
	})
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func checkName(errs []fieldError, name string) []fieldError {
	if len(strings.TrimSpace(name)) < minNameLen {
		errs = append(errs, fieldError{"name", "Name must be at least 2 characters"})
	}
	return errs
}

func checkEmail(errs []fieldError, email string) []fieldError {
	if email == "" {
		return append(errs, fieldError{"email", "Email is required"})
	}
	if !validEmail(email) {
		errs = append(errs, fieldError{"email", "Email must be a valid address"})
	}
	return errs
}

func checkPassword(errs []fieldError, password string) []fieldError {
	if len(password) < minPasswordLen {
		errs = append(errs, fieldError{"password", "Password must be at least 6 characters"})
	}
	return errs
}

func (req registerRequest) validate() []fieldError {
	var errs []fieldError
	errs = checkName(errs, req.Name)
	errs = checkEmail(errs, req.Email)
	errs = checkPassword(errs, req.Password)
	return errs
}

func (req loginRequest) validate() []fieldError {
	var errs []fieldError
	if req.Email == "" {
		errs = append(errs, fieldError{"email", "Email is required"})
	}
	if req.Password == "" {
		errs = append(errs, fieldError{"password", "Password is required"})
	}
	return errs
}

func (req forgotPasswordRequest) validate() []fieldError {
	return checkEmail(nil, req.Email)
}

func (req resetPasswordRequest) validate() []fieldError {
	return checkPassword(nil, req.Password)
}

func (req createExpenseRequest) validate() []fieldError {
	var errs []fieldError
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, fieldError{"title", "Title is required"})
	}
	if req.Amount <= 0 {
		errs = append(errs, fieldError{"amount", "Amount must be a positive number"})
	}
	if req.Category != "" && !domain.Category(req.Category).Valid() {
		errs = append(errs, fieldError{"category", "Unknown category"})
	}
	if req.PaymentMethod != "" && !domain.PaymentMethod(req.PaymentMethod).Valid() {
		errs = append(errs, fieldError{"paymentMethod", "Unknown payment method"})
	}
	return errs
}

func (req updateExpenseRequest) validate() []fieldError {
	var errs []fieldError
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		errs = append(errs, fieldError{"title", "Title cannot be blank"})
	}
	if req.Amount != nil && *req.Amount <= 0 {
		errs = append(errs, fieldError{"amount", "Amount must be a positive number"})
	}
	if req.Category != nil && !domain.Category(*req.Category).Valid() {
		errs = append(errs, fieldError{"category", "Unknown category"})
	}
	if req.PaymentMethod != nil && !domain.PaymentMethod(*req.PaymentMethod).Valid() {
		errs = append(errs, fieldError{"paymentMethod", "Unknown payment method"})
	}
	return errs
}
