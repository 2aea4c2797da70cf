// Содержит структуры данных (DTO) для работы с документами в системе.
// Используется для передачи данных между слоями приложения.
//
// Основные возможности:
//   - Представление документа с метаданными и контентом.
//   - Описание запросов на создание, замену и частичное редактирование.
//   - Представление версий документа и результата применения операций.
package dto

import (
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edit"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/structure"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/types"
)

type Doc struct {
	DocLight

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Content types.DocJSON `json:"content"`

	ParentDoc *string `json:"parent_doc,omitempty"`
}

type DocLight struct {
	Id    string `json:"id"`
	Title string `json:"title"`
	Draft *bool  `json:"draft,omitempty"`
	SeqId int    `json:"seq_id"`
}

// DocCreateRequest — запрос на создание документа. Content принимается
// в любом входном формате и проходит нормализацию.
type DocCreateRequest struct {
	Title       string      `json:"title" validate:"required,max=150"`
	Content     interface{} `json:"content,omitempty"`
	ParentDocID *string     `json:"parent_doc_id,omitempty"`
	Draft       bool        `json:"draft"`
}

type DocUpdateRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,max=150"`
	Draft *bool   `json:"draft,omitempty"`
}

// DocReplaceContentRequest — полная замена содержимого. Отклоняется,
// если документ содержит сложные блоки.
type DocReplaceContentRequest struct {
	Content interface{} `json:"content" validate:"required"`
}

type DocEditBlocksRequest struct {
	Operations []edit.Operation `json:"operations" validate:"required,min=1"`
}

type DocEditAccordionRequest struct {
	Target     interface{}               `json:"target,omitempty"`
	BlockID    string                    `json:"block_id,omitempty"`
	Operations []edit.AccordionOperation `json:"operations" validate:"required,min=1"`
}

// DocEditResult — итог применения операций редактирования.
type DocEditResult struct {
	Doc               Doc      `json:"doc"`
	OperationsApplied int      `json:"operations_applied"`
	Warnings          []string `json:"warnings,omitempty"`
}

type DocStructure struct {
	structure.Structure
	DocID string `json:"doc_id"`
	Title string `json:"title"`
}

type DocSnapshotLight struct {
	Id        string    `json:"id"`
	SeqId     int       `json:"seq_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type DocSnapshot struct {
	DocSnapshotLight
	Content types.DocJSON `json:"content"`
}
