package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/milhojas/pedidos-api/internal/application/dto"
	"github.com/milhojas/pedidos-api/internal/domain"
	"github.com/milhojas/pedidos-api/internal/domain/entity"
	"github.com/milhojas/pedidos-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase casos de uso CRUD de usuarios para el panel de administración.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create crea un usuario nuevo. El password se hashea con bcrypt y debe
// coincidir con la confirmación; el mismatch se rechaza localmente sin tocar
// la base de datos.
func (uc *UserUseCase) Create(in dto.SaveUserRequest) (*dto.UserResponse, error) {
	if err := validateSaveUser(in, true); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         in.Role,
		Name:         in.Name,
		CreatedAt:    time.Now(),
	}
	if err := uc.repo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Update edita un usuario existente. Password vacío significa "no cambiar".
func (uc *UserUseCase) Update(id string, in dto.SaveUserRequest) (*dto.UserResponse, error) {
	if err := validateSaveUser(in, false); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if in.Username != user.Username {
		existing, err := uc.repo.GetByUsername(in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrDuplicate
		}
	}
	user.Username = in.Username
	user.Name = in.Name
	user.Role = in.Role
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := uc.repo.Update(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List lista todos los usuarios.
func (uc *UserUseCase) List() ([]dto.UserResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return items, nil
}

// Delete elimina un usuario por ID.
func (uc *UserUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func validateSaveUser(in dto.SaveUserRequest, passwordRequired bool) error {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Name) == "" {
		return domain.ErrValidation
	}
	if !entity.ValidRole(in.Role) {
		return domain.ErrValidation
	}
	if passwordRequired && in.Password == "" {
		return domain.ErrValidation
	}
	if in.Password != in.ConfirmPassword {
		return domain.ErrValidation
	}
	return nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
