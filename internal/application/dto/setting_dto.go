package dto

import "time"

// UpdateSettingRequest entrada para actualizar una clave de apariencia
// (logo o bg). Value es un data-URL o referencia a imagen.
type UpdateSettingRequest struct {
	Value string `json:"value" validate:"required"`
}

// SettingResponse salida de una clave de configuración.
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
