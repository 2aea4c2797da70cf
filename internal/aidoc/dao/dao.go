// Пакет dao содержит модели и методы для взаимодействия с базой данных,
// отвечающей за хранение документов и их версий.
package dao

import (
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/config"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var Config *config.Config

func GenUUID() uuid.UUID {
	u2, _ := uuid.NewV4()
	return u2
}

// Migrate применяет миграции всех моделей пакета.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Doc{},
		&DocSnapshot{},
	)
}
