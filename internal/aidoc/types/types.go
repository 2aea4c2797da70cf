// Пакет types содержит типы данных для хранения документов в базе данных.
package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

// DocJSON — содержимое документа в колонке jsonb. Пустое значение
// сериализуется как документ с одним пустым параграфом: в базе не бывает
// документа без содержимого.
type DocJSON struct {
	*tiptap.Document
}

func NewDocJSON(doc *tiptap.Document) DocJSON {
	if doc == nil {
		doc = tiptap.EmptyDocument()
	}
	return DocJSON{Document: doc}
}

func (d DocJSON) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (d *DocJSON) Scan(value interface{}) error {
	if value == nil {
		d.Document = tiptap.EmptyDocument()
		return nil
	}

	var res []byte
	switch v := value.(type) {
	case []byte:
		res = v
	case string:
		res = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	return json.Unmarshal(res, d)
}

func (d DocJSON) MarshalJSON() ([]byte, error) {
	if d.Document == nil {
		return json.Marshal(tiptap.EmptyDocument())
	}
	return json.Marshal(d.Document)
}

func (d *DocJSON) UnmarshalJSON(data []byte) error {
	var doc tiptap.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Type == "" {
		doc.Type = "doc"
	}
	if len(doc.Content) == 0 {
		doc.Content = []tiptap.Node{tiptap.EmptyParagraph()}
	}
	d.Document = &doc
	return nil
}
