package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// RetryPolicy bounds how many times a store operation is re-attempted
// after a transient failure, with exponential backoff between attempts.
type RetryPolicy struct {
	Intentos int
	Base     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Intentos: 3, Base: 100 * time.Millisecond}
}

// Run executes fn and retries it while the error looks transient.
// Business errors (stock insuficiente, estados inválidos, not found)
// never retry: re-running them cannot change the outcome.
func (p RetryPolicy) Run(ctx context.Context, fn func() error) error {
	intentos := p.Intentos
	if intentos < 1 {
		intentos = 1
	}
	base := p.Base
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	var err error
	for i := 0; i < intentos; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(base << (i - 1)):
			}
		}
		err = fn()
		if err == nil || !esTransitorio(err) {
			return err
		}
	}
	return err
}

func esTransitorio(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return false
	}
	var stockErr *StockInsuficienteError
	var commitErr *CommitParcialError
	if errors.As(err, &stockErr) || errors.As(err, &commitErr) {
		return false
	}
	for _, e := range []error{
		ErrTipoMovimientoInvalido, ErrCantidadIncompatible, ErrAjusteSinCambio,
		ErrProductoInactivo, ErrVentaYaAnulada, ErrCompraNoPendiente,
		ErrCredencialesInvalidas,
	} {
		if errors.Is(err, e) {
			return false
		}
	}
	return true
}
