package entity

import "time"

// Claves conocidas de la tabla settings (apariencia de la aplicación).
const (
	SettingLogo = "logo"
	SettingBg   = "bg"
)

// Setting par clave/valor de configuración persistida (logo y fondo de login,
// almacenados como data-URL o referencia a imagen).
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
