package entity

import "time"

// Product representa un producto del catálogo de la planta (insumos y masas
// que las tiendas pueden pedir). Los pedidos lo referencian solo por ID.
type Product struct {
	ID        string
	Name      string
	ImageURL  string
	CreatedAt time.Time
}
