// Пакет normalize приводит произвольный пользовательский ввод к валидному
// Tree JSON документу. Это единственная точка входа содержимого в систему:
// что бы ни пришло снаружи — Tree JSON, Content JSON, Markdown-строка или
// мусор — на выходе всегда непустой документ с проставленными
// идентификаторами блоков.
package normalize

import (
	"encoding/json"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/content"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

// Normalizer приводит входные данные к Tree JSON.
// Генератор идентификаторов подменяется в тестах.
type Normalizer struct {
	GenerateID tiptap.IDGenerator
}

func New() *Normalizer {
	return &Normalizer{GenerateID: tiptap.NewBlockID}
}

// Normalize конвертирует произвольное значение в валидный документ.
// Не возвращает ошибок: любой вход, включая nil, дает документ
// как минимум с одним пустым параграфом.
func (n *Normalizer) Normalize(v interface{}) *tiptap.Document {
	doc := n.normalize(v)
	if len(doc.Content) == 0 {
		doc = tiptap.EmptyDocument()
	}
	return tiptap.AssignBlockIDs(doc, n.GenerateID)
}

// NormalizeRaw разбирает сырой JSON и нормализует результат.
// Невалидный JSON трактуется как plain-текст.
func (n *Normalizer) NormalizeRaw(raw []byte) *tiptap.Document {
	if len(raw) == 0 {
		return n.Normalize(nil)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return n.Normalize(string(raw))
	}
	return n.Normalize(v)
}

// Nodes конвертирует произвольное значение в список нод без гарантии
// непустоты и без присвоения идентификаторов. Используется механизмом
// частичного редактирования, где пустое содержимое операции — повод
// отклонить операцию, а не подставить пустой параграф.
func (n *Normalizer) Nodes(v interface{}) []tiptap.Node {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return content.ParseMarkdown(val)
	case []interface{}:
		return n.normalizeArray(val)
	case map[string]interface{}:
		if typ, _ := val["type"].(string); typ == "doc" {
			inner, _ := val["content"].([]interface{})
			return n.normalizeArray(inner)
		}
		if node := n.normalizeItem(val); node != nil {
			return []tiptap.Node{*node}
		}
		return nil
	default:
		return nil
	}
}

func (n *Normalizer) normalize(v interface{}) *tiptap.Document {
	switch val := v.(type) {
	case nil:
		return tiptap.EmptyDocument()
	case string:
		return n.normalizeString(val)
	case []interface{}:
		return tiptap.NewDocument(n.normalizeArray(val))
	case map[string]interface{}:
		return n.normalizeObject(val)
	case *tiptap.Document:
		if val == nil {
			return tiptap.EmptyDocument()
		}
		return val.Clone()
	case tiptap.Document:
		return val.Clone()
	default:
		return tiptap.EmptyDocument()
	}
}

func (n *Normalizer) normalizeString(s string) *tiptap.Document {
	// Строка может оказаться сериализованным JSON
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			return n.normalize(v)
		}
	}
	return tiptap.NewDocument(content.ParseMarkdown(s))
}

func (n *Normalizer) normalizeObject(obj map[string]interface{}) *tiptap.Document {
	typ, _ := obj["type"].(string)

	// Обертка {"doc": ...} или {"content": ...} без собственного типа
	if typ == "" {
		if inner, ok := obj["doc"]; ok {
			return n.normalize(inner)
		}
		if inner, ok := obj["content"]; ok {
			return n.normalize(inner)
		}
		if inner, ok := obj["blocks"]; ok {
			return n.normalize(inner)
		}
		return literalObjectDocument(obj)
	}

	if typ == "doc" {
		inner, _ := obj["content"].([]interface{})
		return tiptap.NewDocument(n.normalizeArray(inner))
	}

	// Одиночная нода Tree JSON или одиночный блок Content JSON
	if single := n.normalizeItem(obj); single != nil {
		return tiptap.NewDocument([]tiptap.Node{*single})
	}
	return literalObjectDocument(obj)
}

// literalObjectDocument сохраняет нераспознанный объект видимым текстом:
// он сериализуется обратно в JSON и оборачивается в параграф.
func literalObjectDocument(obj map[string]interface{}) *tiptap.Document {
	raw, err := json.Marshal(obj)
	if err != nil {
		return tiptap.EmptyDocument()
	}
	return tiptap.NewDocument([]tiptap.Node{{
		Type:    "paragraph",
		Content: []tiptap.Node{{Type: "text", Text: string(raw)}},
	}})
}

// normalizeArray обрабатывает массив, элементы которого могут быть нодами
// Tree JSON, блоками Content JSON или строками — вперемешку.
func (n *Normalizer) normalizeArray(items []interface{}) []tiptap.Node {
	nodes := make([]tiptap.Node, 0, len(items))
	for _, raw := range items {
		switch item := raw.(type) {
		case map[string]interface{}:
			if node := n.normalizeItem(item); node != nil {
				nodes = append(nodes, *node)
			}
		case string:
			nodes = append(nodes, content.ParseMarkdown(item)...)
		}
	}
	return nodes
}

func (n *Normalizer) normalizeItem(item map[string]interface{}) *tiptap.Node {
	typ, _ := item["type"].(string)

	// Текстовая нода на верхнем уровне не бывает блоком:
	// она оборачивается в параграф.
	if typ == "text" {
		if node := decodeTreeNode(item); node != nil {
			return &tiptap.Node{Type: "paragraph", Content: []tiptap.Node{*node}}
		}
		return nil
	}

	// Ноды Tree JSON распознаются по известному типу ноды;
	// блоки Content JSON — по своему набору видов. Виды вроде paragraph
	// существуют в обоих форматах: наличие content выдает Tree JSON.
	if tiptap.IsKnownNodeType(typ) {
		if _, hasContent := item["content"]; hasContent || !content.IsBlockKind(typ) {
			return decodeTreeNode(item)
		}
	}
	return content.ConvertBlock(item)
}

// decodeTreeNode переводит map в типизированную ноду через JSON.
// Ноды с нарушенной структурой отбрасываются.
func decodeTreeNode(item map[string]interface{}) *tiptap.Node {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil
	}
	var node tiptap.Node
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil
	}
	if node.Type == "" {
		return nil
	}
	return &node
}
