package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/milhojas/pedidos-api/internal/domain/entity"
	"github.com/milhojas/pedidos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
// Las lecturas resuelven StoreName por join con profiles y completan las
// líneas con una segunda query sobre order_items.
type OrderRepo struct {
	db Querier
}

// NewOrderRepository construye el adaptador de persistencia para pedidos.
func NewOrderRepository(db Querier) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `
	o.id, o.store_id, COALESCE(p.name, 'Tienda'), o.status, o.created_at,
	o.dispatched_at, o.received_at, COALESCE(o.novedades, '')`

// CreateHeader inserta la cabecera del pedido.
func (r *OrderRepo) CreateHeader(order *entity.Order) error {
	query := `
		INSERT INTO orders (id, store_id, status, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(context.Background(), query,
		order.ID, order.StoreID, order.Status, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// AddItems inserta las líneas del pedido.
func (r *OrderRepo) AddItems(orderID string, items []entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity)
		VALUES (gen_random_uuid(), $1, $2, $3)`
	for _, it := range items {
		if _, err := r.db.Exec(context.Background(), query, orderID, it.ProductID, it.Quantity); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un pedido completo por ID.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o LEFT JOIN profiles p ON p.id = o.store_id
		WHERE o.id = $1`
	var o entity.Order
	err := r.db.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.StoreID, &o.StoreName, &o.Status, &o.CreatedAt,
		&o.DispatchedAt, &o.ReceivedAt, &o.Novedades,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadItems([]*entity.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListAll devuelve todos los pedidos, más recientes primero.
func (r *OrderRepo) ListAll() ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o LEFT JOIN profiles p ON p.id = o.store_id
		ORDER BY o.created_at DESC`
	return r.list(query)
}

// ListByStore devuelve los pedidos de una tienda, más recientes primero.
func (r *OrderRepo) ListByStore(storeID string) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o LEFT JOIN profiles p ON p.id = o.store_id
		WHERE o.store_id = $1
		ORDER BY o.created_at DESC`
	return r.list(query, storeID)
}

func (r *OrderRepo) list(query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.db.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.StoreID, &o.StoreName, &o.Status, &o.CreatedAt,
			&o.DispatchedAt, &o.ReceivedAt, &o.Novedades,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadItems completa las líneas de los pedidos con una sola query.
func (r *OrderRepo) loadItems(orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	query := `
		SELECT order_id, product_id, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY created_at ASC`
	rows, err := r.db.Query(context.Background(), query, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var orderID string
		var it entity.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

// UpdateStatus persiste el estado y los timestamps del ciclo de vida.
func (r *OrderRepo) UpdateStatus(order *entity.Order) error {
	query := `
		UPDATE orders
		SET status = $2, dispatched_at = $3, received_at = $4, novedades = $5
		WHERE id = $1`
	_, err := r.db.Exec(context.Background(), query,
		order.ID, order.Status, order.DispatchedAt, order.ReceivedAt, nullIfEmpty(order.Novedades),
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// Delete elimina un pedido; las líneas caen por ON DELETE CASCADE.
func (r *OrderRepo) Delete(id string) error {
	_, err := r.db.Exec(context.Background(), `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
