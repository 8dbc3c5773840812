package cli

import (
	"context"
	"errors"

	"saldo/internal/core"
)

type brokenStore struct{}

func (brokenStore) Load(context.Context) (core.Ledger, error) {
	return core.Ledger{}, errors.New("corrupt file")
}

func (brokenStore) Save(context.Context, core.Ledger) error {
	return errors.New("read only")
}
