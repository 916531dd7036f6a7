package repository

import "github.com/milhojas/pedidos-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (tabla profiles).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	List() ([]*entity.User, error)
	Delete(id string) error
}
