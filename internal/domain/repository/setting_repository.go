package repository

import "github.com/milhojas/pedidos-api/internal/domain/entity"

// SettingRepository define el puerto de persistencia para Setting
// (tabla settings, clave primaria key, semántica upsert).
type SettingRepository interface {
	Upsert(setting *entity.Setting) error
	Get(key string) (*entity.Setting, error)
	List() ([]*entity.Setting, error)
}
