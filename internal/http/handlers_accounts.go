package http

import (
	"net/http"
	"strings"

	"pocket/internal/core"
	"pocket/internal/log"
)

type accountsResponse struct {
	Accounts []core.Account `json:"accounts"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	OK(accountsResponse{Accounts: s.ledger.Accounts()}).Write(w)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	name, balance, ok := s.parseAccount(w, r)
	if !ok {
		return
	}

	acc := s.ledger.AddAccount(name, balance)
	s.access.LogMutation(r.Context(), "Account created", log.OpCreate,
		log.NewFields().WithAccount(acc.ID, acc.Balance.String()))
	Created(acc).Write(w)
}

func (s *Server) handleEditAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	name, balance, ok := s.parseAccount(w, r)
	if !ok {
		return
	}

	if !s.ledger.EditAccount(id, name, balance) {
		NotFoundError("account not found").Write(w)
		return
	}
	s.access.LogMutation(r.Context(), "Account updated", log.OpUpdate,
		log.NewFields().WithAccount(id, balance.String()))

	acc, _ := s.ledger.Account(id)
	OK(acc).Write(w)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.ledger.DeleteAccount(id) {
		NotFoundError("account not found").Write(w)
		return
	}
	s.access.LogMutation(r.Context(), "Account deleted", log.OpDelete,
		log.NewFields().WithAccount(id, ""))
	NoContent().Write(w)
}

// parseAccount decodes and validates an account body, writing the 400
// response itself when the input is rejected.
func (s *Server) parseAccount(w http.ResponseWriter, r *http.Request) (string, core.Money, bool) {
	var req accountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return "", core.Money{}, false
	}

	name := strings.TrimSpace(sanitizeInput(req.Name))
	if err := core.ValidateAccountInput(name); err != nil {
		BadRequestError(err.Error()).Write(w)
		return "", core.Money{}, false
	}
	balance, err := core.ParseBalance(req.Balance.String())
	if err != nil {
		BadRequestError("balance must be a valid number").Write(w)
		return "", core.Money{}, false
	}
	return name, balance, true
}
