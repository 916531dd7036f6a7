package dto

import "time"

// LoginRequest entrada para login por credenciales.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT y el usuario autenticado (sin password).
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// SaveUserRequest entrada para crear o editar un usuario desde el panel de
// administración. Password en texto plano: se hashea en el use case y debe
// coincidir con ConfirmPassword.
type SaveUserRequest struct {
	Username        string `json:"username" validate:"required,min=1,max=100"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role" validate:"required,oneof=admin plant store"`
	Name            string `json:"name" validate:"required,min=1,max=200"`
}

// UserResponse salida de un usuario (nunca incluye el hash de password).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
