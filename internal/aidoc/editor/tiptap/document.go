package tiptap

import "strings"

// EmptyParagraph возвращает пустой параграф — подстановка для любого пути,
// который иначе оставил бы документ без единой ноды.
func EmptyParagraph() Node {
	return Node{Type: "paragraph"}
}

// EmptyDocument возвращает документ с одним пустым параграфом.
// Документ с нулем детей не является валидным состоянием.
func EmptyDocument() *Document {
	return &Document{Type: "doc", Content: []Node{EmptyParagraph()}}
}

// NewDocument оборачивает ноды верхнего уровня в документ.
// Пустой список заменяется одним пустым параграфом.
func NewDocument(content []Node) *Document {
	if len(content) == 0 {
		return EmptyDocument()
	}
	return &Document{Type: "doc", Content: content}
}

// Clone возвращает глубокую копию документа.
func (d *Document) Clone() *Document {
	if d == nil {
		return EmptyDocument()
	}
	return &Document{Type: d.Type, Content: cloneNodes(d.Content)}
}

// Clone возвращает глубокую копию ноды.
func (n Node) Clone() Node {
	c := Node{Type: n.Type, Text: n.Text}
	if n.Attrs != nil {
		c.Attrs = make(map[string]interface{}, len(n.Attrs))
		for k, v := range n.Attrs {
			c.Attrs[k] = v
		}
	}
	c.Content = cloneNodes(n.Content)
	if n.Marks != nil {
		c.Marks = make([]Mark, len(n.Marks))
		for i, m := range n.Marks {
			c.Marks[i] = m.Clone()
		}
	}
	return c
}

// Clone возвращает копию mark.
func (m Mark) Clone() Mark {
	c := Mark{Type: m.Type}
	if m.Attrs != nil {
		c.Attrs = make(map[string]interface{}, len(m.Attrs))
		for k, v := range m.Attrs {
			c.Attrs[k] = v
		}
	}
	return c
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	res := make([]Node, len(nodes))
	for i, n := range nodes {
		res[i] = n.Clone()
	}
	return res
}

// PlainText собирает текст всех текстовых листьев поддерева в порядке обхода в глубину.
func (n Node) PlainText() string {
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n Node) appendText(sb *strings.Builder) {
	if n.Type == "text" {
		sb.WriteString(n.Text)
		return
	}
	for _, child := range n.Content {
		child.appendText(sb)
	}
}

// BlockID возвращает стабильный идентификатор блока или пустую строку.
func (n Node) BlockID() string {
	return GetAttrString(n.Attrs, "blockId")
}

// FindBlockIndex ищет среди нод верхнего уровня блок с данным идентификатором.
// Возвращает -1, если идентификатор не найден.
func (d *Document) FindBlockIndex(blockID string) int {
	if blockID == "" {
		return -1
	}
	for i, n := range d.Content {
		if n.BlockID() == blockID {
			return i
		}
	}
	return -1
}
