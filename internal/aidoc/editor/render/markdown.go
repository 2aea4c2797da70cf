package render

import (
	"fmt"
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
	md "github.com/nao1215/markdown"
)

// ToMarkdown сериализует документ в Markdown. Вложенные контейнеры
// (колонки, аккордеоны) разворачиваются в плоскую последовательность блоков:
// у Markdown нет эквивалентной структуры.
func ToMarkdown(doc *tiptap.Document) string {
	if doc == nil {
		return ""
	}

	var sb strings.Builder
	builder := md.NewMarkdown(&sb)

	for _, node := range doc.Content {
		writeNodeMarkdown(builder, node)
	}

	// Запись идет в strings.Builder и не может завершиться ошибкой
	_ = builder.Build()
	return sb.String()
}

func writeNodeMarkdown(builder *md.Markdown, node tiptap.Node) {
	switch node.Type {
	case "paragraph":
		if text := inlineMarkdown(node.Content); text != "" {
			builder.PlainText(text)
		}
	case "heading":
		text := inlineMarkdown(node.Content)
		switch tiptap.GetAttrInt(node.Attrs, "level") {
		case 2:
			builder.H2(text)
		case 3:
			builder.H3(text)
		case 4:
			builder.H4(text)
		case 5:
			builder.H5(text)
		case 6:
			builder.H6(text)
		default:
			builder.H1(text)
		}
	case "bulletList":
		builder.BulletList(listItemsMarkdown(node)...)
	case "orderedList":
		builder.OrderedList(listItemsMarkdown(node)...)
	case "taskList":
		boxes := make([]md.CheckBoxSet, 0, len(node.Content))
		for _, item := range node.Content {
			boxes = append(boxes, md.CheckBoxSet{
				Checked: tiptap.GetAttrBool(item.Attrs, "checked"),
				Text:    inlineMarkdown(flattenInline(item)),
			})
		}
		builder.CheckBox(boxes)
	case "blockquote":
		builder.Blockquote(node.PlainText())
	case "codeBlock":
		lang := tiptap.GetAttrString(node.Attrs, "language")
		builder.CodeBlocks(md.SyntaxHighlight(lang), node.PlainText())
	case "horizontalRule":
		builder.HorizontalRule()
	case "table":
		writeTableMarkdown(builder, node)
	case "image":
		src := tiptap.GetAttrString(node.Attrs, "src")
		alt := tiptap.GetAttrString(node.Attrs, "alt")
		builder.PlainText(fmt.Sprintf("![%s](%s)", alt, src))
	case "columns", "column", "accordionGroup", "accordionContent":
		for _, child := range node.Content {
			writeNodeMarkdown(builder, child)
		}
	case "accordionItem":
		for _, child := range node.Content {
			if child.Type == "accordionTitle" {
				builder.H3(inlineMarkdown(child.Content))
			} else {
				writeNodeMarkdown(builder, child)
			}
		}
	}
}

func writeTableMarkdown(builder *md.Markdown, node tiptap.Node) {
	if len(node.Content) == 0 {
		return
	}

	var header []string
	var rows [][]string

	for rowIndex, row := range node.Content {
		cells := make([]string, 0, len(row.Content))
		isHeader := false
		for _, cell := range row.Content {
			if cell.Type == "tableHeader" {
				isHeader = true
			}
			cells = append(cells, inlineMarkdown(flattenInline(cell)))
		}
		if rowIndex == 0 && isHeader {
			header = cells
		} else {
			rows = append(rows, cells)
		}
	}

	// Markdown-таблице нужна строка заголовков
	if header == nil {
		if len(rows) == 0 {
			return
		}
		header = rows[0]
		rows = rows[1:]
	}
	for i := range rows {
		for len(rows[i]) < len(header) {
			rows[i] = append(rows[i], "")
		}
	}

	builder.CustomTable(md.TableSet{
		Header: header,
		Rows:   rows,
	}, md.TableOptions{
		AutoWrapText: false,
	})
}

func listItemsMarkdown(node tiptap.Node) []string {
	items := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		items = append(items, inlineMarkdown(flattenInline(item)))
	}
	return items
}

// flattenInline собирает текстовые ноды контейнера без блочной структуры.
func flattenInline(node tiptap.Node) []tiptap.Node {
	var texts []tiptap.Node
	for _, child := range node.Content {
		if child.Type == "text" {
			texts = append(texts, child)
		} else {
			texts = append(texts, flattenInline(child)...)
		}
	}
	return texts
}

func inlineMarkdown(nodes []tiptap.Node) string {
	var sb strings.Builder
	for _, node := range nodes {
		if node.Type != "text" {
			sb.WriteString(inlineMarkdown(node.Content))
			continue
		}
		text := node.Text
		var href string
		for _, mark := range node.Marks {
			switch mark.Type {
			case "bold":
				text = md.Bold(text)
			case "italic":
				text = md.Italic(text)
			case "strike":
				text = md.Strikethrough(text)
			case "code":
				text = md.Code(text)
			case "link":
				href = tiptap.GetAttrString(mark.Attrs, "href")
			}
		}
		if href != "" {
			text = md.Link(text, href)
		}
		sb.WriteString(text)
	}
	return sb.String()
}
