package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorbarbieri91/zyra-billing/internal/application/billing"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
)

var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBilling abre a transação, executa fn com repositórios presos à tx e faz
// Commit ou Rollback. O SELECT ... FOR UPDATE do repositório de lançamentos só
// tem efeito porque roda nesta transação.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	entries repository.TimesheetRepository,
	invoices repository.InvoiceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	entries := NewTimesheetRepository(tx)
	invoices := NewInvoiceRepository(tx)

	if err := fn(entries, invoices); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
