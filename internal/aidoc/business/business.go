// Пакет business содержит бизнес-логику работы с документами: создание,
// частичное редактирование, версионирование и экспорт. Все мутации содержимого
// проходят через движок редактирования и нормализатор; перед каждой записью
// содержимого снимается версия документа.
package business

import (
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/config"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edit"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/normalize"
	"gorm.io/gorm"
)

type Business struct {
	db  *gorm.DB
	cfg *config.Config

	norm   *normalize.Normalizer
	engine *edit.Engine
}

func NewBL(db *gorm.DB, cfg *config.Config) *Business {
	norm := normalize.New()
	return &Business{
		db:     db,
		cfg:    cfg,
		norm:   norm,
		engine: edit.NewEngineWithNormalizer(norm),
	}
}

func (b *Business) DB() *gorm.DB {
	return b.db
}
