// Пакет edit реализует частичное редактирование документа: пакет операций
// вставки, замены, удаления и дописывания блоков верхнего уровня, выраженных
// в координатах исходного документа. Операции разрешаются заранее,
// сортируются и применяются с накопительной поправкой индексов, поэтому
// ранние правки не ломают адреса поздних.
package edit

import (
	"fmt"
	"sort"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/normalize"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

// Действия над блоками верхнего уровня.
const (
	ActionInsertBefore = "insert_before"
	ActionInsertAfter  = "insert_after"
	ActionReplace      = "replace"
	ActionRemove       = "remove"
	ActionAppend       = "append"
)

// Operation — одна операция редактирования. Адреса target/end_target
// задаются числом или текстом заголовка; block_id/end_block_id имеют
// приоритет и разрешаются в индексы до всего остального. Диапазоны
// replace/remove включают обе границы.
type Operation struct {
	Action     string      `json:"action"`
	Target     interface{} `json:"target,omitempty"`
	EndTarget  interface{} `json:"end_target,omitempty"`
	BlockID    string      `json:"block_id,omitempty"`
	EndBlockID string      `json:"end_block_id,omitempty"`
	Content    interface{} `json:"content,omitempty"`
}

// Result — итог применения пакета операций.
type Result struct {
	Doc               *tiptap.Document `json:"doc"`
	OperationsApplied int              `json:"operations_applied"`
	Warnings          []string         `json:"warnings,omitempty"`
}

// Engine применяет операции редактирования. Содержимое операций проходит
// через нормализатор, поэтому принимается в любом входном формате.
type Engine struct {
	norm *normalize.Normalizer
}

func NewEngine() *Engine {
	return &Engine{norm: normalize.New()}
}

// NewEngineWithNormalizer позволяет подменить генератор идентификаторов в тестах.
func NewEngineWithNormalizer(n *normalize.Normalizer) *Engine {
	return &Engine{norm: n}
}

// разрешенная индексная операция
type resolvedOp struct {
	order  int
	action string
	start  int
	end    int
	nodes  []tiptap.Node
}

// Apply применяет операции к документу и возвращает новый документ.
// Исходный документ не изменяется. Некорректные операции пропускаются
// с предупреждением; вызов считается неудачным только если не применилась
// ни одна операция — в этом случае вызывающий код не должен сохранять
// результат.
func (e *Engine) Apply(doc *tiptap.Document, operations []Operation) Result {
	result := Result{}

	work := doc.Clone()

	var indexed []resolvedOp
	var appends [][]tiptap.Node

	for i, op := range operations {
		label := fmt.Sprintf("операция %d (%s)", i+1, op.Action)

		switch op.Action {
		case ActionAppend:
			nodes := e.norm.Nodes(op.Content)
			if len(nodes) == 0 {
				result.Warnings = append(result.Warnings, label+": пустое содержимое, операция пропущена")
				continue
			}
			appends = append(appends, nodes)

		case ActionInsertBefore, ActionInsertAfter, ActionReplace, ActionRemove:
			resolved, ok := e.resolveOperation(work, i, op, label, &result.Warnings)
			if !ok {
				continue
			}
			indexed = append(indexed, resolved)

		default:
			result.Warnings = append(result.Warnings, fmt.Sprintf("операция %d: неизвестное действие %q, операция пропущена", i+1, op.Action))
		}
	}

	// Сортировка по исходному индексу делает поправку индексов детерминированной
	// независимо от порядка операций в запросе
	sort.SliceStable(indexed, func(a, b int) bool {
		if indexed[a].start != indexed[b].start {
			return indexed[a].start < indexed[b].start
		}
		return indexed[a].order < indexed[b].order
	})

	delta := 0
	for _, op := range indexed {
		delta += e.applyIndexed(work, op, delta)
		result.OperationsApplied++
	}

	for _, nodes := range appends {
		work.Content = append(work.Content, nodes...)
		result.OperationsApplied++
	}

	if len(work.Content) == 0 {
		work.Content = []tiptap.Node{tiptap.EmptyParagraph()}
	}

	result.Doc = tiptap.AssignBlockIDs(work, e.norm.GenerateID)
	return result
}

// resolveOperation разрешает адреса операции в индексы исходного документа.
func (e *Engine) resolveOperation(doc *tiptap.Document, order int, op Operation, label string, warnings *[]string) (resolvedOp, bool) {
	resolved := resolvedOp{order: order, action: op.Action}

	// Идентификаторы блоков имеют приоритет над target/end_target
	target := op.Target
	if op.BlockID != "" && target == nil {
		index := doc.FindBlockIndex(op.BlockID)
		if index < 0 {
			*warnings = append(*warnings, fmt.Sprintf("%s: блок %q не найден, операция пропущена", label, op.BlockID))
			return resolved, false
		}
		target = index
	}
	endTarget := op.EndTarget
	if op.EndBlockID != "" && endTarget == nil {
		index := doc.FindBlockIndex(op.EndBlockID)
		if index < 0 {
			*warnings = append(*warnings, fmt.Sprintf("%s: блок %q не найден, операция пропущена", label, op.EndBlockID))
			return resolved, false
		}
		endTarget = index
	}

	if op.Action == ActionInsertBefore || op.Action == ActionInsertAfter || op.Action == ActionReplace {
		resolved.nodes = e.norm.Nodes(op.Content)
		if len(resolved.nodes) == 0 {
			*warnings = append(*warnings, label+": пустое содержимое, операция пропущена")
			return resolved, false
		}
	}

	start, ok, warns := ResolveTarget(doc, target, label)
	*warnings = append(*warnings, warns...)
	if !ok {
		if len(warns) == 0 {
			*warnings = append(*warnings, label+": не указан адрес блока, операция пропущена")
		}
		return resolved, false
	}
	resolved.start = start
	resolved.end = start

	if (op.Action == ActionReplace || op.Action == ActionRemove) && endTarget != nil {
		end, ok, warns := ResolveTarget(doc, endTarget, label+", конец диапазона")
		*warnings = append(*warnings, warns...)
		if !ok {
			return resolved, false
		}
		if end < start {
			*warnings = append(*warnings, fmt.Sprintf("%s: конец диапазона %d раньше начала %d, операция пропущена", label, end, start))
			return resolved, false
		}
		resolved.end = end
	}

	return resolved, true
}

// applyIndexed применяет операцию к скорректированной позиции и возвращает
// изменение числа блоков.
func (e *Engine) applyIndexed(doc *tiptap.Document, op resolvedOp, delta int) int {
	length := len(doc.Content)
	start := op.start + delta
	if start < 0 {
		start = 0
	}

	switch op.action {
	case ActionInsertBefore:
		insertNodes(doc, start, op.nodes)
		return len(op.nodes)
	case ActionInsertAfter:
		insertNodes(doc, start+1, op.nodes)
		return len(op.nodes)
	case ActionReplace, ActionRemove:
		if length == 0 {
			if op.action == ActionReplace {
				insertNodes(doc, 0, op.nodes)
				return len(op.nodes)
			}
			return 0
		}
		if start > length-1 {
			start = length - 1
		}
		end := op.end + delta
		if end < start {
			end = start
		}
		if end > length-1 {
			end = length - 1
		}
		removed := end - start + 1
		doc.Content = append(doc.Content[:start], doc.Content[end+1:]...)
		if op.action == ActionReplace {
			insertNodes(doc, start, op.nodes)
			return len(op.nodes) - removed
		}
		return -removed
	}
	return 0
}

func insertNodes(doc *tiptap.Document, position int, nodes []tiptap.Node) {
	if position > len(doc.Content) {
		position = len(doc.Content)
	}
	updated := make([]tiptap.Node, 0, len(doc.Content)+len(nodes))
	updated = append(updated, doc.Content[:position]...)
	updated = append(updated, nodes...)
	updated = append(updated, doc.Content[position:]...)
	doc.Content = updated
}
