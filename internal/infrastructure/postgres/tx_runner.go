package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stockfifo-api/internal/application/ledger"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los errores de serialización y deadlock se traducen a
// domain.ErrConcurrentModification; el llamador decide si reintenta.
func (r *TxRunner) Run(ctx context.Context, fn func(
	lots repository.LotRepository,
	transfers repository.TransferRepository,
	activity repository.ActivityLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lotRepo := NewLotRepository(tx)
	transferRepo := NewTransferRepository(tx)
	activityRepo := NewActivityLogRepository(tx)

	if err := fn(lotRepo, transferRepo, activityRepo); err != nil {
		return translateConcurrency(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateConcurrency(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
