package http

import (
	"strings"

	"saldo/internal/core"
	"saldo/internal/storage"
)

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

type moneyView struct {
	Amount    string `json:"amount"`
	Formatted string `json:"formatted"`
}

func (s *Server) money(m core.Money) moneyView {
	return moneyView{Amount: m.String(), Formatted: m.Format(s.currency)}
}

type transactionView struct {
	storage.TransactionRecord
	Formatted string `json:"formatted"`
}

func (s *Server) transaction(t core.Transaction) transactionView {
	return transactionView{
		TransactionRecord: storage.NewTransactionRecord(t),
		Formatted:         t.Signed().Format(s.currency),
	}
}

type monthView struct {
	Month   string    `json:"month"`
	Income  moneyView `json:"income"`
	Expense moneyView `json:"expense"`
	Net     moneyView `json:"net"`
	Count   int       `json:"count"`
}

func (s *Server) month(o core.MonthOverview) monthView {
	return monthView{
		Month:   core.NewDate(o.Year, o.Month, 1).Format("2006-01"),
		Income:  s.money(o.Income),
		Expense: s.money(o.Expense),
		Net:     s.money(o.Net()),
		Count:   o.Count,
	}
}
