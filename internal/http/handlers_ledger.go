package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"pocket/internal/core"
	"pocket/internal/currency"
	"pocket/internal/export"
	"pocket/internal/log"
	"pocket/internal/report"
)

type (
	formattedAmount struct {
		Amount    core.Money `json:"amount"`
		Formatted string     `json:"formatted"`
	}

	categoryView struct {
		Name string `json:"name"`
		formattedAmount
	}

	shareView struct {
		AccountID string     `json:"accountId"`
		Name      string     `json:"name"`
		Balance   core.Money `json:"balance"`
		Percent   int64      `json:"percent"`
	}

	summaryResponse struct {
		Currency             currency.Code   `json:"currency"`
		Symbol               string          `json:"symbol"`
		TotalBalance         formattedAmount `json:"totalBalance"`
		PositiveBalanceTotal formattedAmount `json:"positiveBalanceTotal"`
		PeriodTotal          formattedAmount `json:"periodTotal"`
		Categories           []categoryView  `json:"categories"`
		AccountShares        []shareView     `json:"accountShares"`
		PayableAccounts      []core.Account  `json:"payableAccounts"`
	}

	currencyView struct {
		Code   currency.Code `json:"code"`
		Symbol string        `json:"symbol"`
	}

	catalogResponse struct {
		Currencies   []currencyView `json:"currencies"`
		Categories   []string       `json:"categories"`
		Institutions []string       `json:"institutions"`
	}
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	code := s.ledger.Currency()
	format := func(m core.Money) formattedAmount {
		return formattedAmount{Amount: m, Formatted: s.ledger.FormatAmount(m, true, true)}
	}

	totals := s.ledger.CategoryTotals()
	categories := make([]categoryView, 0, len(totals))
	periodTotal := core.Money{}
	for _, c := range totals {
		categories = append(categories, categoryView{Name: c.Name, formattedAmount: format(c.Amount)})
		periodTotal = periodTotal.Add(c.Amount)
	}

	shares := s.ledger.AccountShares()
	shareViews := make([]shareView, 0, len(shares))
	for _, sh := range shares {
		shareViews = append(shareViews, shareView{
			AccountID: sh.Account.ID,
			Name:      sh.Account.Name,
			Balance:   sh.Account.Balance,
			Percent:   sh.Percent,
		})
	}

	OK(summaryResponse{
		Currency:             code,
		Symbol:               currency.Symbol(code),
		TotalBalance:         format(s.ledger.TotalBalance()),
		PositiveBalanceTotal: format(s.ledger.PositiveBalanceTotal()),
		PeriodTotal:          format(periodTotal),
		Categories:           categories,
		AccountShares:        shareViews,
		PayableAccounts:      s.ledger.PayableAccounts(),
	}).Write(w)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	codes := currency.Codes()
	currencies := make([]currencyView, len(codes))
	for i, c := range codes {
		currencies[i] = currencyView{Code: c, Symbol: currency.Symbol(c)}
	}
	OK(catalogResponse{
		Currencies:   currencies,
		Categories:   core.Categories,
		Institutions: core.Institutions,
	}).Write(w)
}

func (s *Server) handleGetCurrency(w http.ResponseWriter, r *http.Request) {
	code := s.ledger.Currency()
	OK(currencyView{Code: code, Symbol: currency.Symbol(code)}).Write(w)
}

func (s *Server) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	var req currencyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	code, err := currency.Parse(req.Currency)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	s.ledger.SetCurrency(code)
	s.access.LogMutation(r.Context(), "Currency changed", log.OpUpdate,
		log.NewFields().WithCurrency(code.String()))
	OK(currencyView{Code: code, Symbol: currency.Symbol(code)}).Write(w)
}

func (s *Server) handleSummaryHTML(w http.ResponseWriter, r *http.Request) {
	page, err := report.SummaryHTML(s.ledger)
	if err != nil {
		s.access.LogError(r.Context(), "Summary render failed", err, log.ComponentHTTP, log.OpRead, log.NewFields())
		InternalServerError("render failed").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

func (s *Server) handleExportExpensesCSV(w http.ResponseWriter, r *http.Request) {
	expenses := s.ledger.Expenses()
	s.writeExport(w, r, "text/csv; charset=utf-8", "expenses.csv", func(out io.Writer) error {
		return export.ExpensesCSV(out, expenses)
	})
}

func (s *Server) handleExportHistoryCSV(w http.ResponseWriter, r *http.Request) {
	history := s.ledger.History()
	s.writeExport(w, r, "text/csv; charset=utf-8", "history.csv", func(out io.Writer) error {
		return export.HistoryCSV(out, history)
	})
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	snap := s.ledger.Snapshot()
	s.writeExport(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "ledger.xlsx", func(out io.Writer) error {
		return export.ExpensesXLSX(out, snap)
	})
}

// writeExport renders into a buffer first so a failure can still become a
// JSON error response.
func (s *Server) writeExport(w http.ResponseWriter, r *http.Request, contentType, filename string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		if errors.Is(err, export.ErrNoData) {
			NotFoundError(err.Error()).Write(w)
			return
		}
		s.access.LogError(r.Context(), "Export failed", err, log.ComponentHTTP, log.OpExport, log.NewFields())
		InternalServerError("export failed").Write(w)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
