// Пакет structure извлекает компактное оглавление документа: по одной записи
// на блок верхнего уровня, с усеченным текстовым превью. Такое представление
// на порядки меньше полного Tree JSON и достаточно для адресации блоков
// при частичном редактировании.
package structure

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

// PreviewLimit — максимальная длина превью блока в рунах.
const PreviewLimit = 120

// Entry описывает один блок верхнего уровня.
type Entry struct {
	Index   int                    `json:"index"`
	Type    string                 `json:"type"`
	Preview string                 `json:"preview"`
	BlockID string                 `json:"block_id,omitempty"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
}

// Structure — оглавление документа.
type Structure struct {
	TotalBlocks int     `json:"total_blocks"`
	Blocks      []Entry `json:"blocks"`
}

// typeAliases переводит внутренние имена нод в устойчивые внешние имена.
// Внешние имена совпадают с видами блоков Content JSON, чтобы клиент
// оперировал одним словарем на чтении и записи.
var typeAliases = map[string]string{
	"bulletList":     "list",
	"orderedList":    "ordered_list",
	"taskList":       "checklist",
	"blockquote":     "quote",
	"codeBlock":      "code",
	"horizontalRule": "divider",
	"accordionGroup": "accordion",
	"databaseTable":  "database",
}

// complexTypes — блоки со сложной внутренней структурой, которые нельзя
// безопасно пересоздать из плоского Content JSON: полная замена содержимого
// документа с такими блоками уничтожила бы их данные.
var complexTypes = map[string]bool{
	"columns":        true,
	"accordionGroup": true,
	"databaseTable":  true,
	"spreadsheet":    true,
	"mindmap":        true,
}

// TypeAlias возвращает внешнее имя типа блока.
func TypeAlias(nodeType string) string {
	if alias, ok := typeAliases[nodeType]; ok {
		return alias
	}
	return nodeType
}

// Extract строит оглавление документа.
func Extract(doc *tiptap.Document) Structure {
	s := Structure{Blocks: []Entry{}}
	if doc == nil {
		return s
	}
	s.TotalBlocks = len(doc.Content)
	for i, node := range doc.Content {
		s.Blocks = append(s.Blocks, entryFor(i, node))
	}
	return s
}

func entryFor(index int, node tiptap.Node) Entry {
	entry := Entry{
		Index:   index,
		Type:    TypeAlias(node.Type),
		Preview: Preview(node),
		BlockID: node.BlockID(),
	}

	// Наружу выходят только адресуемые атрибуты, не оформление
	attrs := map[string]interface{}{}
	if level := tiptap.GetAttrInt(node.Attrs, "level"); level > 0 {
		attrs["level"] = level
	}
	if viewID := tiptap.GetAttrString(node.Attrs, "viewId"); viewID != "" {
		attrs["viewId"] = viewID
	}
	if len(attrs) > 0 {
		entry.Attrs = attrs
	}

	return entry
}

// Preview возвращает короткое текстовое описание блока: усеченный текст,
// а если текста в блоке нет — плейсхолдер, для контейнеров с размером.
func Preview(node tiptap.Node) string {
	switch node.Type {
	case "horizontalRule":
		return "---"
	case "databaseTable":
		return "[database table]"
	case "image":
		if alt := tiptap.GetAttrString(node.Attrs, "alt"); alt != "" {
			return "[image: " + alt + "]"
		}
		return "[image]"
	}

	if text := truncate(node.PlainText()); text != "" {
		return text
	}

	switch node.Type {
	case "columns":
		return fmt.Sprintf("[%d columns]", len(node.Content))
	case "accordionGroup":
		return fmt.Sprintf("[accordion: %d items]", len(node.Content))
	case "table":
		return fmt.Sprintf("[table: %d rows]", len(node.Content))
	case "taskList":
		return fmt.Sprintf("[checklist: %d items]", len(node.Content))
	}
	return "[" + TypeAlias(node.Type) + "]"
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= PreviewLimit {
		return s
	}
	return string(runes[:PreviewLimit-1]) + "…"
}

// IsComplexType сообщает, относится ли тип ноды к сложным блокам.
func IsComplexType(nodeType string) bool {
	return complexTypes[nodeType]
}

// ComplexBlockTypes возвращает отсортированный список внешних имен сложных
// блоков верхнего уровня документа. Пустой список означает, что полная
// замена содержимого безопасна.
func ComplexBlockTypes(doc *tiptap.Document) []string {
	if doc == nil {
		return nil
	}
	seen := map[string]bool{}
	for _, node := range doc.Content {
		if complexTypes[node.Type] {
			seen[TypeAlias(node.Type)] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// HasComplexBlocks сообщает, содержит ли документ сложные блоки
// на верхнем уровне.
func HasComplexBlocks(doc *tiptap.Document) bool {
	return len(ComplexBlockTypes(doc)) > 0
}
