package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	appsync "github.com/milhojas/pedidos-api/internal/application/sync"
)

var _ appsync.Reader = (*SnapshotReader)(nil)

// SnapshotReader ejecuta el fetch completo del snapshot dentro de una
// transacción REPEATABLE READ de solo lectura: las cuatro colecciones salen
// del mismo corte de la base, nunca mezclando lados de un commit concurrente
// (por ejemplo un pedido que referencia una tienda recién creada que todavía
// no aparece en profiles).
type SnapshotReader struct {
	pool *pgxpool.Pool
}

// NewSnapshotReader construye el lector sobre el pool.
func NewSnapshotReader(pool *pgxpool.Pool) *SnapshotReader {
	return &SnapshotReader{pool: pool}
}

// Read abre la transacción de lectura, ejecuta fn con los repositorios
// atados a ella y la cierra.
func (r *SnapshotReader) Read(ctx context.Context, fn func(repos appsync.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("begin snapshot read: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(appsync.Repos{
		Orders:   NewOrderRepository(tx),
		Users:    NewUserRepository(tx),
		Products: NewProductRepository(tx),
		Settings: NewSettingRepository(tx),
	})
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}
