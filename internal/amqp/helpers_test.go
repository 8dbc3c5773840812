package amqp

import (
	"github.com/rabbitmq/amqp091-go"

	"saldo/internal/core"
)

func errClosedForTest() error { return amqp091.ErrClosed }

func sampleLedgerForMessages() core.Ledger {
	return core.EmptyLedger().SetInitialBalance(core.Money{Cents: 1000}, core.NewDate(2024, 1, 1))
}
