package usecase

import (
	"time"

	"github.com/milhojas/pedidos-api/internal/application/dto"
	"github.com/milhojas/pedidos-api/internal/domain"
	"github.com/milhojas/pedidos-api/internal/domain/entity"
	"github.com/milhojas/pedidos-api/internal/domain/repository"
)

// SettingUseCase administra las claves de apariencia (logo y fondo de login)
// con semántica upsert sobre la tabla settings.
type SettingUseCase struct {
	repo repository.SettingRepository
}

// NewSettingUseCase construye el caso de uso.
func NewSettingUseCase(repo repository.SettingRepository) *SettingUseCase {
	return &SettingUseCase{repo: repo}
}

// Upsert guarda el valor de una clave conocida. Claves fuera de la lista
// blanca (logo, bg) se rechazan. El valor vacío es válido: limpia la clave
// y la interfaz vuelve a su apariencia por defecto.
func (uc *SettingUseCase) Upsert(key string, in dto.UpdateSettingRequest) (*dto.SettingResponse, error) {
	if key != entity.SettingLogo && key != entity.SettingBg {
		return nil, domain.ErrValidation
	}
	setting := &entity.Setting{
		Key:       key,
		Value:     in.Value,
		UpdatedAt: time.Now(),
	}
	if err := uc.repo.Upsert(setting); err != nil {
		return nil, err
	}
	return toSettingResponse(setting), nil
}

// List devuelve todas las claves persistidas (público: la página de login
// necesita logo y fondo antes de autenticar).
func (uc *SettingUseCase) List() ([]dto.SettingResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.SettingResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSettingResponse(s))
	}
	return items, nil
}

func toSettingResponse(s *entity.Setting) *dto.SettingResponse {
	if s == nil {
		return nil
	}
	return &dto.SettingResponse{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt}
}
