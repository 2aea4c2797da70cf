package tiptap

import "github.com/gofrs/uuid"

// IDGenerator выдает новый стабильный идентификатор блока.
// Подменяется в тестах на детерминированный генератор.
type IDGenerator func() string

// NewBlockID — генератор идентификаторов по умолчанию: "block-" + UUID v4.
func NewBlockID() string {
	u, _ := uuid.NewV4()
	return "block-" + u.String()
}

// blockIDTypes — ноды, получающие стабильный идентификатор.
// Корень документа и inline-листья (text) идентификаторов не несут.
var blockIDTypes = map[string]bool{
	"paragraph":        true,
	"heading":          true,
	"bulletList":       true,
	"orderedList":      true,
	"listItem":         true,
	"taskList":         true,
	"taskItem":         true,
	"blockquote":       true,
	"codeBlock":        true,
	"horizontalRule":   true,
	"table":            true,
	"tableRow":         true,
	"tableHeader":      true,
	"tableCell":        true,
	"image":            true,
	"columns":          true,
	"column":           true,
	"accordionGroup":   true,
	"accordionItem":    true,
	"accordionTitle":   true,
	"accordionContent": true,
	"databaseTable":    true,
	"spreadsheet":      true,
	"mindmap":          true,
	"taskMention":      true,
	"taskSection":      true,
}

// AssignBlockIDs назначает идентификаторы всем нодам без blockId, обходя дерево в глубину.
// Уже назначенные идентификаторы никогда не перезаписываются: повторный вызов
// на том же дереве не меняет ни одного значения.
func AssignBlockIDs(doc *Document, gen IDGenerator) *Document {
	if gen == nil {
		gen = NewBlockID
	}
	for i := range doc.Content {
		assignNodeIDs(&doc.Content[i], gen)
	}
	return doc
}

func assignNodeIDs(n *Node, gen IDGenerator) {
	if blockIDTypes[n.Type] && n.BlockID() == "" {
		n.SetAttr("blockId", gen())
	}
	for i := range n.Content {
		assignNodeIDs(&n.Content[i], gen)
	}
}
