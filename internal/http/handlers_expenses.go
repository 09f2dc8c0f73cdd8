package http

import (
	"errors"
	"net/http"
	"strings"

	"pocket/internal/core"
	"pocket/internal/log"
)

var errNothingToReset = errors.New("there are no expenses to reset")

type expensesResponse struct {
	Expenses []core.Expense `json:"expenses"`
}

type historyResponse struct {
	History []core.HistoryItem `json:"history"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	OK(expensesResponse{Expenses: s.ledger.Expenses()}).Write(w)
}

// handleCreateExpense records an expense if the paying account holds at
// least the amount.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	amount, err := core.ParseAmount(req.Amount.String())
	if err != nil {
		BadRequestError(core.ErrInvalidAmount.Error()).Write(w)
		return
	}
	category := strings.TrimSpace(sanitizeInput(req.Category))
	note := sanitizeInput(req.Note)
	accountID := strings.TrimSpace(req.AccountID)

	exp, err := s.ledger.SpendFrom(amount, category, note, accountID)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if !core.IsPresetCategory(exp.Category) {
		s.logger.DebugContext(r.Context(), "Free-form expense category", "category", exp.Category, "expense_id", exp.ID)
	}
	s.access.LogMutation(r.Context(), "Expense recorded", log.OpCreate,
		log.NewFields().WithExpense(exp.ID, exp.Amount.String(), exp.Category, exp.AccountID))
	Created(exp).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	exp, found := s.ledger.Expense(id)
	if !found || !s.ledger.DeleteExpense(id) {
		NotFoundError("expense not found").Write(w)
		return
	}
	s.access.LogMutation(r.Context(), "Expense deleted", log.OpDelete,
		log.NewFields().WithExpense(id, exp.Amount.String(), exp.Category, exp.AccountID))
	NoContent().Write(w)
}

func (s *Server) handleResetPeriod(w http.ResponseWriter, r *http.Request) {
	item, ok := s.ledger.ResetPeriod()
	if !ok {
		BadRequestError(errNothingToReset.Error()).Write(w)
		return
	}
	s.access.LogMutation(r.Context(), "Period reset", log.OpReset,
		log.NewFields().WithHistory(item.ID, item.Total.String(), len(item.Expenses)))
	Created(item).Write(w)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	OK(historyResponse{History: s.ledger.History()}).Write(w)
}
