// Package api exposes the HTTP surface: the auth lifecycle endpoints, the
// ownership-scoped expense ledger, and the operational probes.
package api

import (
	"net/http"
	"time"

	"github.com/walleto/walleto/internal/domain"
	"github.com/walleto/walleto/pkg/httpx"
	"github.com/walleto/walleto/pkg/slogx"
)

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

type authResponse struct {
	Token           string       `json:"token"`
	User            userResponse `json:"user"`
	VerificationURL string       `json:"verificationUrl,omitempty"`
}

type expenseResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Amount        float64   `json:"amount"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"paymentMethod"`
	Description   string    `json:"description,omitempty"`
	GroupKey      string    `json:"groupKey,omitempty"`
	Date          time.Time `json:"date"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toExpenseResponse(e domain.Expense) expenseResponse {
	return expenseResponse{
		ID:            e.ID,
		UserID:        e.UserID,
		Title:         e.Title,
		Amount:        e.Amount,
		Category:      string(e.Category),
		PaymentMethod: string(e.PaymentMethod),
		Description:   e.Description,
		GroupKey:      e.GroupKey,
		Date:          e.Date,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func toExpenseResponses(list []domain.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toExpenseResponse(e))
	}
	return out
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	httpx.WriteJSON(w, code, messageResponse{Message: msg})
}

func writeBadBody(w http.ResponseWriter) {
	writeMessage(w, http.StatusBadRequest, "Invalid request body")
}

// writeInternal logs the cause and hides it from the client.
func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Error("request failed", "error", err)
	writeMessage(w, http.StatusInternalServerError, "Internal server error")
}
