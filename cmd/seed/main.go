// seed crea el esquema de la base de datos y carga los datos iniciales
// (usuarios, catálogo de productos). Es idempotente: las tablas se crean
// con IF NOT EXISTS y los datos con ON CONFLICT DO NOTHING, así que puede
// ejecutarse las veces que haga falta.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/milhojas/pedidos-api/internal/infrastructure/postgres"
	"github.com/milhojas/pedidos-api/pkg/config"
)

// schema DDL completo: tablas, triggers de notificación y extensión pgcrypto
// (gen_random_uuid). Los triggers hacen pg_notify en cada cambio de orders y
// order_items; el payload es el nombre de la tabla y nada más, porque el
// coordinador siempre responde con un refetch completo.
const schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS profiles (
    id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
    username   TEXT NOT NULL UNIQUE,
    password   TEXT NOT NULL,
    role       TEXT NOT NULL CHECK (role IN ('admin', 'plant', 'store')),
    name       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS products (
    id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
    name       TEXT NOT NULL,
    image_url  TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
    id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
    store_id      TEXT NOT NULL REFERENCES profiles(id),
    status        TEXT NOT NULL CHECK (status IN ('Pendiente', 'Despachado', 'Recibido', 'Con Novedad')),
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    dispatched_at TIMESTAMPTZ,
    received_at   TIMESTAMPTZ,
    novedades     TEXT
);

CREATE TABLE IF NOT EXISTS order_items (
    id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
    order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    product_id TEXT NOT NULL REFERENCES products(id),
    quantity   INTEGER NOT NULL CHECK (quantity > 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS settings (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_orders_store_id ON orders(store_id);
CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);

CREATE OR REPLACE FUNCTION notify_orders_sync() RETURNS trigger AS $$
BEGIN
    PERFORM pg_notify('orders_sync', TG_TABLE_NAME);
    RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS orders_sync_notify ON orders;
CREATE TRIGGER orders_sync_notify
    AFTER INSERT OR UPDATE OR DELETE ON orders
    FOR EACH STATEMENT EXECUTE FUNCTION notify_orders_sync();

DROP TRIGGER IF EXISTS order_items_sync_notify ON order_items;
CREATE TRIGGER order_items_sync_notify
    AFTER INSERT OR UPDATE OR DELETE ON order_items
    FOR EACH STATEMENT EXECUTE FUNCTION notify_orders_sync();
`

type seedUser struct {
	id       string
	username string
	password string
	role     string
	name     string
}

type seedProduct struct {
	id       string
	name     string
	imageURL string
}

var seedUsers = []seedUser{
	{"admin-01", "admi", "123", "admin", "Administrador"},
	{"plant-01", "planta", "123", "plant", "Planta Central de Panadería"},
	{"store-01", "tienda1", "123", "store", "Panadería del Centro"},
	{"store-02", "tienda2", "123", "store", "Panadería del Norte"},
	{"store-03", "tienda3", "123", "store", "Panadería La Esquina"},
}

var seedProducts = []seedProduct{
	{"prod-01", "Masa de Hojaldre (kg)", "https://images.unsplash.com/photo-1621282103395-882a1b7c1a84?q=80&w=1974&auto=format&fit=crop"},
	{"prod-02", "Harina de Trigo (bulto)", "https://images.unsplash.com/photo-1599579089988-193eb5b719f9?q=80&w=1974&auto=format&fit=crop"},
	{"prod-03", "Huevos (Bandeja x30)", "https://images.unsplash.com/photo-1582722872445-44dc5f2e6c8f?q=80&w=1974&auto=format&fit=crop"},
	{"prod-04", "Mantequilla (Bloque 1kg)", "https://images.unsplash.com/photo-1628088240563-54440538a1f4?q=80&w=1995&auto=format&fit=crop"},
	{"prod-05", "Levadura Fresca (kg)", "https://images.unsplash.com/photo-1627918512533-365239a531a8?q=80&w=1974&auto=format&fit=crop"},
	{"prod-06", "Arequipe (5kg)", "https://images.unsplash.com/photo-1558961363-fa8fdfc1586a?q=80&w=1974&auto=format&fit=crop"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		fail("crear esquema: %v", err)
	}
	fmt.Println("Esquema creado (tablas, índices y triggers de notificación)")

	for _, u := range seedUsers {
		// La columna se llama password por compatibilidad de esquema pero
		// almacena el hash bcrypt, nunca la contraseña en claro.
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			fail("hash de contraseña para %s: %v", u.username, err)
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO profiles (id, username, password, role, name)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (username) DO NOTHING`,
			u.id, u.username, string(hash), u.role, u.name,
		)
		if err != nil {
			fail("insertar usuario %s: %v", u.username, err)
		}
	}
	fmt.Printf("Usuarios: %d (admin, planta y tiendas)\n", len(seedUsers))

	for _, p := range seedProducts {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, image_url)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING`,
			p.id, p.name, p.imageURL,
		)
		if err != nil {
			fail("insertar producto %s: %v", p.name, err)
		}
	}
	fmt.Printf("Productos: %d (catálogo de panadería)\n", len(seedProducts))

	fmt.Println("Seed completado")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
