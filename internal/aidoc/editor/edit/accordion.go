package edit

import (
	"errors"
	"fmt"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/content"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/inline"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

var (
	ErrAccordionNotFound = errors.New("accordion block not found")
	ErrNotAccordion      = errors.New("target block is not an accordion")
)

// Действия над элементами аккордеона.
const (
	AccordionActionAdd    = "add"
	AccordionActionUpdate = "update"
	AccordionActionRemove = "remove"
)

// AccordionItem — описание нового элемента аккордеона.
type AccordionItem struct {
	Title      string      `json:"title"`
	Content    interface{} `json:"content,omitempty"`
	Icon       string      `json:"icon,omitempty"`
	IconColor  string      `json:"iconColor,omitempty"`
	TitleColor string      `json:"titleColor,omitempty"`
}

// AccordionOperation — одна операция над элементами аккордеона.
// Для update перезаписываются только явно переданные поля,
// поэтому опциональные поля — указатели.
type AccordionOperation struct {
	Action     string          `json:"action"`
	Position   *int            `json:"position,omitempty"`
	Items      []AccordionItem `json:"items,omitempty"`
	ItemIndex  *int            `json:"item_index,omitempty"`
	Count      int             `json:"count,omitempty"`
	Title      *string         `json:"title,omitempty"`
	Content    interface{}     `json:"content,omitempty"`
	Icon       *string         `json:"icon,omitempty"`
	IconColor  *string         `json:"iconColor,omitempty"`
	TitleColor *string         `json:"titleColor,omitempty"`
}

// EditAccordion применяет операции к одному блоку аккордеона, найденному
// по block_id или адресу. Операции применяются последовательно к
// изменяющемуся списку элементов: каждая видит результат предыдущих,
// индексы относятся к текущему состоянию, а не к исходному.
//
// Если после операций элементов не осталось, блок аккордеона заменяется
// пустым параграфом: аккордеон без элементов — невалидное состояние.
func (e *Engine) EditAccordion(doc *tiptap.Document, target interface{}, blockID string, operations []AccordionOperation) (Result, error) {
	result := Result{}

	work := doc.Clone()

	index := -1
	if blockID != "" {
		index = work.FindBlockIndex(blockID)
	} else {
		resolved, ok, warns := ResolveTarget(work, target, "аккордеон")
		result.Warnings = append(result.Warnings, warns...)
		if ok {
			index = resolved
		}
	}
	if index < 0 {
		return result, ErrAccordionNotFound
	}

	node := &work.Content[index]
	if node.Type != "accordionGroup" {
		return result, fmt.Errorf("%w: блок %d имеет тип %s", ErrNotAccordion, index, node.Type)
	}

	for i, op := range operations {
		label := fmt.Sprintf("операция %d (%s)", i+1, op.Action)

		switch op.Action {
		case AccordionActionAdd:
			if e.addAccordionItems(node, op, label, &result.Warnings) {
				result.OperationsApplied++
			}
		case AccordionActionUpdate:
			if e.updateAccordionItem(node, op, label, &result.Warnings) {
				result.OperationsApplied++
			}
		case AccordionActionRemove:
			if removeAccordionItems(node, op, label, &result.Warnings) {
				result.OperationsApplied++
			}
		default:
			result.Warnings = append(result.Warnings, fmt.Sprintf("операция %d: неизвестное действие %q, операция пропущена", i+1, op.Action))
		}
	}

	if len(node.Content) == 0 {
		work.Content[index] = tiptap.EmptyParagraph()
	}

	result.Doc = tiptap.AssignBlockIDs(work, e.norm.GenerateID)
	return result, nil
}

func (e *Engine) addAccordionItems(node *tiptap.Node, op AccordionOperation, label string, warnings *[]string) bool {
	if len(op.Items) == 0 {
		*warnings = append(*warnings, label+": не переданы элементы, операция пропущена")
		return false
	}

	items := make([]tiptap.Node, 0, len(op.Items))
	for _, item := range op.Items {
		items = append(items, content.AccordionItemNode(item.Title, item.Content, item.Icon, item.IconColor, item.TitleColor))
	}

	position := len(node.Content)
	if op.Position != nil {
		position = *op.Position
		if position < 0 {
			position = 0
		}
		if position > len(node.Content) {
			position = len(node.Content)
		}
	}

	updated := make([]tiptap.Node, 0, len(node.Content)+len(items))
	updated = append(updated, node.Content[:position]...)
	updated = append(updated, items...)
	updated = append(updated, node.Content[position:]...)
	node.Content = updated
	return true
}

func (e *Engine) updateAccordionItem(node *tiptap.Node, op AccordionOperation, label string, warnings *[]string) bool {
	if op.ItemIndex == nil {
		*warnings = append(*warnings, label+": не указан item_index, операция пропущена")
		return false
	}
	index := *op.ItemIndex
	if index < 0 || index >= len(node.Content) {
		*warnings = append(*warnings, fmt.Sprintf("%s: элемент %d вне диапазона (элементов: %d), операция пропущена", label, index, len(node.Content)))
		return false
	}

	item := &node.Content[index]
	title := accordionChild(item, "accordionTitle")
	body := accordionChild(item, "accordionContent")

	if op.Title != nil && title != nil {
		title.Content = inline.Parse(*op.Title)
	}
	if op.Content != nil && body != nil {
		body.Content = content.BodyNodes(op.Content)
	}
	if title != nil {
		if op.Icon != nil {
			title.SetAttr("icon", *op.Icon)
		}
		if op.IconColor != nil {
			title.SetAttr("iconColor", *op.IconColor)
		}
		if op.TitleColor != nil {
			title.SetAttr("titleColor", *op.TitleColor)
		}
	}
	return true
}

func removeAccordionItems(node *tiptap.Node, op AccordionOperation, label string, warnings *[]string) bool {
	if op.ItemIndex == nil {
		*warnings = append(*warnings, label+": не указан item_index, операция пропущена")
		return false
	}
	index := *op.ItemIndex
	if index < 0 || index >= len(node.Content) {
		*warnings = append(*warnings, fmt.Sprintf("%s: элемент %d вне диапазона (элементов: %d), операция пропущена", label, index, len(node.Content)))
		return false
	}

	count := op.Count
	if count < 1 {
		count = 1
	}
	// Count прижимается к оставшимся элементам
	if index+count > len(node.Content) {
		count = len(node.Content) - index
	}

	node.Content = append(node.Content[:index], node.Content[index+count:]...)
	return true
}

func accordionChild(item *tiptap.Node, childType string) *tiptap.Node {
	for i := range item.Content {
		if item.Content[i].Type == childType {
			return &item.Content[i]
		}
	}
	return nil
}
