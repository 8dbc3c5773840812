package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"saldo/internal/core"
	"saldo/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks that the storage backend is reachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{"storage": "ok"}
	if s.ping != nil {
		if err := s.ping(ctx); err != nil {
			checks["storage"] = fmt.Sprintf("failed: %v", err)
			status, code = "not_ready", http.StatusServiceUnavailable
			log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err)
		}
	}

	NewJSONResponse().Status(code).Body(map[string]any{
		"status":   status,
		"checks":   checks,
		"revision": s.tracker.Revision(),
	}).Write(w)
}

type ledgerResponse struct {
	InitialBalance moneyView         `json:"initialBalance"`
	InitialDate    string            `json:"initialDate,omitempty"`
	CurrentBalance moneyView         `json:"currentBalance"`
	Transactions   []transactionView `json:"transactions"`
	Revision       uint64            `json:"revision"`
}

// handleLedger returns the anchor, the transactions newest first and the
// current balance.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	l := s.tracker.Ledger()
	resp := ledgerResponse{
		InitialBalance: s.money(l.InitialBalance),
		InitialDate:    l.InitialDate.String(),
		CurrentBalance: s.money(s.tracker.CurrentBalance()),
		Transactions:   make([]transactionView, 0, len(l.Transactions)),
		Revision:       s.tracker.Revision(),
	}
	for _, t := range l.SortedByDateDesc() {
		resp.Transactions = append(resp.Transactions, s.transaction(t))
	}
	NewJSONResponse().Body(resp).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	d, err := p.DraftInput().Parse()
	if err != nil {
		s.writeValidation(w, r, log.OpCreate, err)
		return
	}
	tx, err := s.tracker.AddTransaction(r.Context(), d)
	if err != nil {
		s.writeValidation(w, r, log.OpCreate, err)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+tx.ID).
		Body(s.transaction(tx)).
		Write(w)
}

// handleDeleteTransaction always answers 204: deleting an unknown id is a no-op.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	s.tracker.DeleteTransaction(r.Context(), r.PathValue("id"))
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleSetAnchor(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	amount, date, err := p.AnchorInput().Parse()
	if err == nil {
		err = s.tracker.SetInitialBalance(r.Context(), amount, date)
	}
	if err != nil {
		s.writeValidation(w, r, log.OpUpdate, err)
		return
	}

	NewJSONResponse().Body(map[string]any{
		"initialBalance": s.money(amount),
		"initialDate":    date.String(),
		"currentBalance": s.money(s.tracker.CurrentBalance()),
	}).Write(w)
}

func (s *Server) handleClearLedger(w http.ResponseWriter, r *http.Request) {
	s.tracker.ClearAll(r.Context())
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// writeValidation answers 422 for validation failures and 500 otherwise.
func (s *Server) writeValidation(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verrs core.ValidationErrors
	if errors.As(err, &verrs) {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Rejected invalid input",
			log.FieldErrorType, log.ErrorTypeValidation,
			log.FieldError, err)
		ValidationError(verrs).Write(w)
		return
	}
	s.events.LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op, log.NewFields().WithErrorType(log.ErrorTypeInternal))
	InternalServerError("internal error").Write(w)
}
