package dao

import (
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/types"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Doc struct {
	ID uuid.UUID `gorm:"column:id;primaryKey;type:uuid" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title   string        `json:"title" validate:"required,max=150"`
	Content types.DocJSON `json:"content" gorm:"type:jsonb"`

	ParentDocID uuid.NullUUID `json:"parent_doc_id"`
	ParentDoc   *Doc          `json:"parent_doc,omitempty" gorm:"foreignKey:ParentDocID" extensions:"x-nullable"`

	SeqId int  `json:"seq_id"`
	Draft bool `json:"draft"`
}

func (Doc) TableName() string { return "docs" }

func (doc *Doc) BeforeCreate(tx *gorm.DB) error {
	if doc.ID.IsNil() {
		doc.ID = GenUUID()
	}
	return nil
}

// Возвращает идентификатор документа в виде строки.
func (d Doc) GetId() string {
	return d.ID.String()
}

// DocSnapshot — версия документа, снятая перед изменением его содержимого.
type DocSnapshot struct {
	ID uuid.UUID `gorm:"column:id;primaryKey;type:uuid" json:"id"`

	CreatedAt time.Time `json:"created_at"`

	DocID uuid.UUID `json:"doc_id" gorm:"index"`
	Doc   *Doc      `json:"-" gorm:"foreignKey:DocID" extensions:"x-nullable"`

	// Порядковый номер версии в рамках документа
	SeqId int `json:"seq_id" gorm:"index"`

	Title   string        `json:"title"`
	Content types.DocJSON `json:"content" gorm:"type:jsonb"`
}

func (DocSnapshot) TableName() string { return "doc_snapshots" }

func (s *DocSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID.IsNil() {
		s.ID = GenUUID()
	}
	return nil
}
