package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/walleto/walleto/internal/service"
	"github.com/walleto/walleto/pkg/httpx"
)

type createExpenseRequest struct {
	Title         string     `json:"title"`
	Amount        float64    `json:"amount"`
	Category      string     `json:"category"`
	PaymentMethod string     `json:"paymentMethod"`
	Description   string     `json:"description"`
	Merchant      string     `json:"merchant"`
	Date          *time.Time `json:"date"`
}

type updateExpenseRequest struct {
	Title         *string    `json:"title"`
	Amount        *float64   `json:"amount"`
	Category      *string    `json:"category"`
	PaymentMethod *string    `json:"paymentMethod"`
	Description   *string    `json:"description"`
	Merchant      *string    `json:"merchant"`
	Date          *time.Time `json:"date"`
}

// ExpenseHandler serves the ledger endpoints. Every request already passed
// the authn middleware, so the context carries the caller's user id.
type ExpenseHandler struct {
	Expenses *service.ExpenseService
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())

	list, err := h.Expenses.List(r.Context(), userID)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toExpenseResponses(list))
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())

	var req createExpenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	in := service.CreateExpenseInput{
		Title:         req.Title,
		Amount:        req.Amount,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		Merchant:      req.Merchant,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}

	e, err := h.Expenses.Create(r.Context(), userID, in)
	switch {
	case errors.Is(err, service.ErrInvalidExpense):
		writeValidationErrors(w, []fieldError{{"expense", err.Error()}})
		return
	case err != nil:
		writeInternal(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toExpenseResponse(e))
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())

	e, err := h.Expenses.Get(r.Context(), userID, r.PathValue("id"))
	switch {
	case errors.Is(err, service.ErrExpenseNotFound):
		writeMessage(w, http.StatusNotFound, "Expense not found")
		return
	case err != nil:
		writeInternal(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toExpenseResponse(e))
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())

	var req updateExpenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	in := service.UpdateExpenseInput{
		Title:         req.Title,
		Amount:        req.Amount,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		Merchant:      req.Merchant,
		Date:          req.Date,
	}

	e, err := h.Expenses.Update(r.Context(), userID, r.PathValue("id"), in)
	switch {
	case errors.Is(err, service.ErrExpenseNotFound):
		writeMessage(w, http.StatusNotFound, "Expense not found")
		return
	case errors.Is(err, service.ErrInvalidExpense):
		writeValidationErrors(w, []fieldError{{"expense", err.Error()}})
		return
	case err != nil:
		writeInternal(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toExpenseResponse(e))
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())

	err := h.Expenses.Delete(r.Context(), userID, r.PathValue("id"))
	switch {
	case errors.Is(err, service.ErrExpenseNotFound):
		writeMessage(w, http.StatusNotFound, "Expense not found")
		return
	case err != nil:
		writeInternal(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Expense removed")
}
