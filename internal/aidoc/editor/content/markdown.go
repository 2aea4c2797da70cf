package content

import (
	"bytes"
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/inline"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ParseMarkdown разбирает Markdown-строку в список нод Tree JSON.
// Поддерживаются заголовки, параграфы, списки, цитаты, блоки кода
// и разделители; inline-разметка внутри блоков разбирается отдельно.
// Пустая строка дает пустой список.
func ParseMarkdown(src string) []tiptap.Node {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil
	}

	source := []byte(trimmed)
	doc := markdownParser.Parser().Parse(text.NewReader(source))

	var nodes []tiptap.Node
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if converted := convertMarkdownBlock(n, source); converted != nil {
			nodes = append(nodes, *converted)
		}
	}
	return nodes
}

func convertMarkdownBlock(n ast.Node, source []byte) *tiptap.Node {
	switch node := n.(type) {
	case *ast.Heading:
		return &tiptap.Node{
			Type:    "heading",
			Attrs:   map[string]interface{}{"level": node.Level},
			Content: inline.Parse(rawBlockText(n, source)),
		}
	case *ast.Paragraph:
		return &tiptap.Node{
			Type:    "paragraph",
			Content: inline.Parse(rawBlockText(n, source)),
		}
	case *ast.List:
		listType := "bulletList"
		if node.IsOrdered() {
			listType = "orderedList"
		}
		list := &tiptap.Node{Type: listType}
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			list.Content = append(list.Content, tiptap.Node{
				Type:    "listItem",
				Content: []tiptap.Node{{Type: "paragraph", Content: inline.Parse(listItemText(item, source))}},
			})
		}
		return list
	case *ast.Blockquote:
		quote := &tiptap.Node{Type: "blockquote"}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if converted := convertMarkdownBlock(c, source); converted != nil {
				quote.Content = append(quote.Content, *converted)
			}
		}
		if len(quote.Content) == 0 {
			quote.Content = []tiptap.Node{tiptap.EmptyParagraph()}
		}
		return quote
	case *ast.FencedCodeBlock:
		code := &tiptap.Node{
			Type:    "codeBlock",
			Content: []tiptap.Node{{Type: "text", Text: rawBlockLines(n, source)}},
		}
		if lang := node.Language(source); len(lang) > 0 {
			code.Attrs = map[string]interface{}{"language": string(lang)}
		}
		return code
	case *ast.CodeBlock:
		return &tiptap.Node{
			Type:    "codeBlock",
			Content: []tiptap.Node{{Type: "text", Text: rawBlockLines(n, source)}},
		}
	case *ast.ThematicBreak:
		return &tiptap.Node{Type: "horizontalRule"}
	default:
		// Незнакомый блок (таблица GFM и т.п.) деградирует до параграфа
		if t := rawBlockText(n, source); t != "" {
			return &tiptap.Node{Type: "paragraph", Content: inline.Parse(t)}
		}
		return nil
	}
}

// rawBlockText возвращает исходный текст блока без разметки самого блока,
// но с сохраненной inline-разметкой. Строки блока склеиваются пробелом.
func rawBlockText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		seg := lines.At(i)
		buf.Write(bytes.TrimSpace(seg.Value(source)))
	}
	if buf.Len() == 0 {
		// У контейнерных блоков строки лежат в детях
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t := rawBlockText(c, source); t != "" {
				if buf.Len() > 0 {
					buf.WriteByte(' ')
				}
				buf.WriteString(t)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// rawBlockLines возвращает строки блока как есть, с переводами строк.
// Используется для блоков кода, где пробельные символы значимы.
func rawBlockLines(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func listItemText(item ast.Node, source []byte) string {
	var parts []string
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if t := rawBlockText(c, source); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
