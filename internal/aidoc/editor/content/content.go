// Пакет content преобразует упрощенный блочный формат Content JSON во внутренние
// ноды Tree JSON. Content JSON — эфемерный входной формат для внешних вызовов
// (в том числе от LLM): плоский массив блоков с дискриминатором type.
// Он никогда не сохраняется; перед записью всегда конвертируется в Tree JSON.
//
// Основные возможности:
//   - Конвертация каждого вида блока (heading, paragraph, list, table, accordion и т.д.).
//   - Разбор inline-разметки во всех текстовых полях.
//   - Деградация неизвестных блоков до параграфа или их пропуск.
package content

import (
	"fmt"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/inline"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

// Значения по умолчанию для заголовка элемента аккордеона.
const (
	DefaultAccordionIcon       = "description"
	DefaultAccordionIconColor  = "#3b82f6"
	DefaultAccordionTitleColor = "#1f2937"
)

// blockKinds — закрытый набор видов блоков Content JSON.
var blockKinds = map[string]bool{
	"heading":      true,
	"paragraph":    true,
	"list":         true,
	"ordered_list": true,
	"checklist":    true,
	"quote":        true,
	"code":         true,
	"divider":      true,
	"table":        true,
	"image":        true,
	"accordion":    true,
	"columns":      true,
}

// IsBlockKind сообщает, является ли строка известным видом блока Content JSON.
func IsBlockKind(kind string) bool {
	return blockKinds[kind]
}

// ConvertBlocks конвертирует массив блоков Content JSON в ноды Tree JSON.
// Элементы, которые не удалось конвертировать, молча пропускаются:
// один некорректный блок не прерывает обработку остальных.
func ConvertBlocks(blocks []interface{}) []tiptap.Node {
	nodes := make([]tiptap.Node, 0, len(blocks))
	for _, raw := range blocks {
		block, ok := raw.(map[string]interface{})
		if !ok {
			// Строка на месте блока — деградация до параграфа
			if s, isStr := raw.(string); isStr {
				nodes = append(nodes, paragraphOf(s))
			}
			continue
		}
		if node := ConvertBlock(block); node != nil {
			nodes = append(nodes, *node)
		}
	}
	return nodes
}

// ConvertBlock конвертирует один блок Content JSON в ноду Tree JSON.
// Неизвестный вид блока с полем text деградирует до параграфа,
// без text — возвращается nil.
func ConvertBlock(block map[string]interface{}) *tiptap.Node {
	switch getString(block, "type") {
	case "heading":
		return convertHeading(block)
	case "paragraph":
		node := paragraphOf(getString(block, "text"))
		return &node
	case "list":
		return convertList(block, "bulletList")
	case "ordered_list":
		return convertList(block, "orderedList")
	case "checklist":
		return convertChecklist(block)
	case "quote":
		return convertQuote(block)
	case "code":
		return convertCode(block)
	case "divider":
		return &tiptap.Node{Type: "horizontalRule"}
	case "table":
		return convertTable(block)
	case "image":
		return convertImage(block)
	case "accordion":
		return convertAccordion(block)
	case "columns":
		return convertColumns(block)
	default:
		if text, ok := block["text"].(string); ok {
			node := paragraphOf(text)
			return &node
		}
		return nil
	}
}

func convertHeading(block map[string]interface{}) *tiptap.Node {
	level := getInt(block, "level")
	if level == 0 {
		level = 1
	}
	return &tiptap.Node{
		Type:    "heading",
		Attrs:   map[string]interface{}{"level": level},
		Content: inline.Parse(getString(block, "text")),
	}
}

func convertList(block map[string]interface{}, listType string) *tiptap.Node {
	node := &tiptap.Node{Type: listType}
	for _, item := range getSlice(block, "items") {
		node.Content = append(node.Content, tiptap.Node{
			Type:    "listItem",
			Content: []tiptap.Node{paragraphOf(itemText(item))},
		})
	}
	return node
}

func convertChecklist(block map[string]interface{}) *tiptap.Node {
	node := &tiptap.Node{Type: "taskList"}
	for _, raw := range getSlice(block, "items") {
		item := tiptap.Node{
			Type:  "taskItem",
			Attrs: map[string]interface{}{"checked": false},
		}
		switch v := raw.(type) {
		case map[string]interface{}:
			item.Attrs["checked"] = getBool(v, "checked")
			item.Content = []tiptap.Node{paragraphOf(getString(v, "text"))}
		case string:
			item.Content = []tiptap.Node{paragraphOf(v)}
		default:
			continue
		}
		node.Content = append(node.Content, item)
	}
	return node
}

func convertQuote(block map[string]interface{}) *tiptap.Node {
	return &tiptap.Node{
		Type:    "blockquote",
		Content: []tiptap.Node{paragraphOf(getString(block, "text"))},
	}
}

func convertCode(block map[string]interface{}) *tiptap.Node {
	node := &tiptap.Node{
		Type: "codeBlock",
		// Код внутри — литеральный текст, inline-разметка не разбирается
		Content: []tiptap.Node{{Type: "text", Text: getString(block, "text")}},
	}
	if lang := getString(block, "language"); lang != "" {
		node.Attrs = map[string]interface{}{"language": lang}
	}
	return node
}

func convertTable(block map[string]interface{}) *tiptap.Node {
	table := &tiptap.Node{Type: "table"}

	headers := getSlice(block, "headers")
	if len(headers) > 0 {
		row := tiptap.Node{Type: "tableRow"}
		for _, h := range headers {
			row.Content = append(row.Content, tiptap.Node{
				Type:    "tableHeader",
				Content: []tiptap.Node{paragraphOf(itemText(h))},
			})
		}
		table.Content = append(table.Content, row)
	}

	for _, rawRow := range getSlice(block, "rows") {
		cells, ok := rawRow.([]interface{})
		if !ok {
			continue
		}
		row := tiptap.Node{Type: "tableRow"}
		for _, c := range cells {
			row.Content = append(row.Content, tiptap.Node{
				Type:    "tableCell",
				Content: []tiptap.Node{paragraphOf(itemText(c))},
			})
		}
		table.Content = append(table.Content, row)
	}

	return table
}

func convertImage(block map[string]interface{}) *tiptap.Node {
	attrs := map[string]interface{}{
		"src": getString(block, "src"),
	}
	if alt := getString(block, "alt"); alt != "" {
		attrs["alt"] = alt
	}
	if align := getString(block, "alignment"); align != "" {
		attrs["alignment"] = align
	}
	return &tiptap.Node{Type: "image", Attrs: attrs}
}

func convertAccordion(block map[string]interface{}) *tiptap.Node {
	node := &tiptap.Node{Type: "accordionGroup"}

	for _, raw := range getSlice(block, "items") {
		item, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		node.Content = append(node.Content, AccordionItemNode(
			getString(item, "title"),
			item["content"],
			getString(item, "icon"),
			getString(item, "iconColor"),
			getString(item, "titleColor"),
		))
	}

	// Схема требует минимум один элемент
	if len(node.Content) == 0 {
		node.Content = append(node.Content, AccordionItemNode("Section", nil, "", "", ""))
	}

	return node
}

// AccordionItemNode собирает ноду accordionItem: заголовок с иконкой и цветами
// плюс содержимое. Пустые значения оформления заменяются значениями по умолчанию,
// пустое содержимое — одним пустым параграфом.
func AccordionItemNode(title string, contentVal interface{}, icon, iconColor, titleColor string) tiptap.Node {
	if title == "" {
		title = "Section"
	}
	if icon == "" {
		icon = DefaultAccordionIcon
	}
	if iconColor == "" {
		iconColor = DefaultAccordionIconColor
	}
	if titleColor == "" {
		titleColor = DefaultAccordionTitleColor
	}

	titleNode := tiptap.Node{
		Type: "accordionTitle",
		Attrs: map[string]interface{}{
			"icon":       icon,
			"iconColor":  iconColor,
			"titleColor": titleColor,
		},
		Content: inline.Parse(title),
	}

	contentNode := tiptap.Node{
		Type:    "accordionContent",
		Content: BodyNodes(contentVal),
	}

	return tiptap.Node{
		Type:    "accordionItem",
		Content: []tiptap.Node{titleNode, contentNode},
	}
}

// BodyNodes конвертирует произвольное значение содержимого (строка, массив блоков,
// один блок) в непустой список нод. Используется для содержимого аккордеонов и колонок.
func BodyNodes(v interface{}) []tiptap.Node {
	var nodes []tiptap.Node
	switch val := v.(type) {
	case string:
		if val != "" {
			nodes = ParseMarkdown(val)
		}
	case []interface{}:
		nodes = ConvertBlocks(val)
	case map[string]interface{}:
		if node := ConvertBlock(val); node != nil {
			nodes = []tiptap.Node{*node}
		}
	}
	if len(nodes) == 0 {
		return []tiptap.Node{tiptap.EmptyParagraph()}
	}
	return nodes
}

func convertColumns(block map[string]interface{}) *tiptap.Node {
	node := &tiptap.Node{Type: "columns"}

	for _, raw := range getSlice(block, "columns") {
		node.Content = append(node.Content, tiptap.Node{
			Type:    "column",
			Content: BodyNodes(raw),
		})
	}

	// Пустой layout бесполезен: по умолчанию две пустые колонки
	if len(node.Content) == 0 {
		node.Content = []tiptap.Node{
			{Type: "column", Content: []tiptap.Node{tiptap.EmptyParagraph()}},
			{Type: "column", Content: []tiptap.Node{tiptap.EmptyParagraph()}},
		}
	}

	return node
}

func paragraphOf(text string) tiptap.Node {
	return tiptap.Node{Type: "paragraph", Content: inline.Parse(text)}
}

// itemText принимает элемент списка в виде строки или объекта {text}.
func itemText(item interface{}) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]interface{}:
		return getString(v, "text")
	default:
		return fmt.Sprint(v)
	}
}

func getString(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func getBool(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func getSlice(m map[string]interface{}, key string) []interface{} {
	s, _ := m[key].([]interface{})
	return s
}
