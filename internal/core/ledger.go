package core

import (
	"sort"

	"github.com/google/uuid"
)

// NewID generates transaction identifiers.
var NewID = uuid.NewString

// EmptyLedger is the initial state: zero balance, no anchor, no transactions.
func EmptyLedger() Ledger {
	return Ledger{}
}

// HasAnchor reports whether the initial balance date was set.
func (l Ledger) HasAnchor() bool {
	return !l.InitialDate.IsZero()
}

// AddTransaction appends d with a fresh ID and returns the new snapshot together
// with the stored transaction. The draft is not validated here.
func (l Ledger) AddTransaction(d Draft) (Ledger, Transaction) {
	d = d.Normalize()
	t := Transaction{
		ID:          NewID(),
		Kind:        d.Kind,
		Amount:      d.Amount,
		Date:        d.Date,
		Description: d.Description,
		Recurrence:  d.Recurrence,
	}
	txs := make([]Transaction, len(l.Transactions), len(l.Transactions)+1)
	copy(txs, l.Transactions)
	l.Transactions = append(txs, t)
	return l, t
}

// DeleteTransaction removes the transaction with the given id.
// An unknown id returns l unchanged.
func (l Ledger) DeleteTransaction(id string) Ledger {
	idx := l.indexOf(id)
	if idx < 0 {
		return l
	}
	txs := make([]Transaction, 0, len(l.Transactions)-1)
	txs = append(txs, l.Transactions[:idx]...)
	txs = append(txs, l.Transactions[idx+1:]...)
	l.Transactions = txs
	return l
}

// SetInitialBalance overwrites the anchor unconditionally.
func (l Ledger) SetInitialBalance(amount Money, date Date) Ledger {
	l.InitialBalance = amount
	l.InitialDate = date
	return l
}

// ClearAll resets to EmptyLedger.
func (Ledger) ClearAll() Ledger {
	return EmptyLedger()
}

// Find returns the transaction with the given id.
func (l Ledger) Find(id string) (Transaction, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return Transaction{}, false
	}
	return l.Transactions[idx], true
}

func (l Ledger) indexOf(id string) int {
	for i, t := range l.Transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// SortedByDateDesc returns a copy ordered newest first; ties keep insertion order.
func (l Ledger) SortedByDateDesc() []Transaction {
	out := make([]Transaction, len(l.Transactions))
	copy(out, l.Transactions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
