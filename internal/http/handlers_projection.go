package http

import (
	"net/http"

	"saldo/internal/core"
)

// handleBalance projects the ledger on ?date=YYYY-MM-DD, today by default.
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	date, err := ParseDateParam(r.URL.Query(), "date")
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	NewJSONResponse().Body(map[string]any{
		"date":      date.String(),
		"balance":   s.money(s.tracker.BalanceAt(date)),
		"hasAnchor": s.tracker.Ledger().HasAnchor(),
	}).Write(w)
}

type targetResponse struct {
	TargetDate       string     `json:"targetDate,omitempty"`
	ProjectedBalance *moneyView `json:"projectedBalance"`
}

func (s *Server) targetResponse() targetResponse {
	var resp targetResponse
	if d, ok := s.tracker.TargetDate(); ok {
		resp.TargetDate = d.String()
	}
	if m, ok := s.tracker.ProjectedBalance(); ok {
		v := s.money(m)
		resp.ProjectedBalance = &v
	}
	return resp
}

func (s *Server) handleGetTarget(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.targetResponse()).Write(w)
}

func (s *Server) handleSetTarget(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	d, err := core.ParseDate(p.First("date", "targetDate"))
	if err == nil {
		err = s.tracker.SetTargetDate(d)
	}
	if err != nil {
		FieldValidationError("date", core.ErrInvalidDate).Write(w)
		return
	}
	NewJSONResponse().Body(s.targetResponse()).Write(w)
}

// handleAggregates lists per-month totals for the months ending at ?end=YYYY-MM.
// Recurring transactions count once, in their own month.
func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	end, err := ParseMonthParam(q, "end")
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	months, err := ParseMonthsParam(q, "months", 6)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	overviews := s.tracker.RecentAggregates(end, months)
	out := make([]monthView, 0, len(overviews))
	for _, o := range overviews {
		out = append(out, s.month(o))
	}
	NewJSONResponse().Body(map[string]any{"months": out}).Write(w)
}

type pointView struct {
	Date    string    `json:"date"`
	Balance moneyView `json:"balance"`
}

// handleProjection samples the projected balance at the end of each month
// starting from ?from=YYYY-MM-DD.
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := ParseDateParam(q, "from")
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	months, err := ParseMonthsParam(q, "months", 12)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	points := s.tracker.ProjectionSeries(from, months)
	out := make([]pointView, 0, len(points))
	for _, p := range points {
		out = append(out, pointView{Date: p.Date.String(), Balance: s.money(p.Balance)})
	}
	NewJSONResponse().Body(map[string]any{"points": out}).Write(w)
}
