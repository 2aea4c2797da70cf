// Пакет tiptap содержит каноническую модель документа AIDoc (Tree JSON).
// Документ хранится и передается в формате, совместимом с TipTap редактором:
// дерево типизированных нод с inline-текстом и marks.
//
// Основные возможности:
//   - Структуры Document, Node и Mark с JSON-сериализацией.
//   - Глубокое копирование дерева (все операции движка работают на копии).
//   - Извлечение текста из поддерева.
//   - Назначение стабильных идентификаторов блоков (blockId).
package tiptap

// Document представляет корневой документ Tree JSON.
// Инвариант: Type всегда "doc", Content содержит минимум одну ноду
// (пустой документ — это документ с одним пустым параграфом).
type Document struct {
	Type    string `json:"type"`
	Content []Node `json:"content"`
}

// Node представляет узел в дереве документа.
// Используется универсальная структура с map для атрибутов для поддержки различных типов нод.
type Node struct {
	Type    string                 `json:"type"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Content []Node                 `json:"content,omitempty"`
	Marks   []Mark                 `json:"marks,omitempty"`
	Text    string                 `json:"text,omitempty"`
}

// Mark представляет форматирование текста (bold, italic, link и т.д.).
type Mark struct {
	Type  string                 `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

// knownNodeTypes — закрытый набор типов нод Tree JSON.
var knownNodeTypes = map[string]bool{
	"doc":              true,
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
	"text":             true,
}

// IsKnownNodeType сообщает, входит ли тип в закрытый набор типов нод Tree JSON.
func IsKnownNodeType(t string) bool {
	return knownNodeTypes[t]
}
