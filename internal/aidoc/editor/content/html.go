package content

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
	"golang.org/x/net/html"
)

// ParseHTML разбирает HTML-фрагмент в список нод Tree JSON.
// Используется при импорте документов из внешних систем: поддерживаются
// заголовки, параграфы, списки, цитаты, таблицы, блоки кода, изображения
// и разделители; остальные элементы пропускаются.
func ParseHTML(r io.Reader) ([]tiptap.Node, error) {
	rootNode, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	body := getBody(rootNode)
	if body == nil {
		return nil, nil
	}

	var nodes []tiptap.Node
	for el := body.FirstChild; el != nil; el = el.NextSibling {
		if el.Type != html.ElementNode {
			continue
		}
		if node := convertHTMLElement(el); node != nil {
			nodes = append(nodes, *node)
		}
	}
	return nodes, nil
}

func convertHTMLElement(el *html.Node) *tiptap.Node {
	switch el.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level, _ := strconv.Atoi(el.Data[1:])
		return &tiptap.Node{
			Type:    "heading",
			Attrs:   map[string]interface{}{"level": level},
			Content: inlineHTMLNodes(el, nil),
		}
	case "p":
		return &tiptap.Node{Type: "paragraph", Content: inlineHTMLNodes(el, nil)}
	case "ul", "ol":
		return convertHTMLList(el)
	case "blockquote":
		quote := &tiptap.Node{Type: "blockquote"}
		for c := el.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if node := convertHTMLElement(c); node != nil {
				quote.Content = append(quote.Content, *node)
			}
		}
		if len(quote.Content) == 0 {
			quote.Content = []tiptap.Node{{Type: "paragraph", Content: inlineHTMLNodes(el, nil)}}
		}
		return quote
	case "pre":
		return convertHTMLCode(el)
	case "table":
		return convertHTMLTable(el)
	case "hr":
		return &tiptap.Node{Type: "horizontalRule"}
	case "img":
		return htmlImage(el)
	case "div":
		// Обертки без собственной семантики разворачиваются в параграф
		if text := collectHTMLText(el); text != "" {
			return &tiptap.Node{Type: "paragraph", Content: inlineHTMLNodes(el, nil)}
		}
		return nil
	default:
		return nil
	}
}

func convertHTMLList(el *html.Node) *tiptap.Node {
	listType := "bulletList"
	if el.Data == "ol" {
		listType = "orderedList"
	}
	list := &tiptap.Node{Type: listType}

	for li := el.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		list.Content = append(list.Content, tiptap.Node{
			Type:    "listItem",
			Content: []tiptap.Node{{Type: "paragraph", Content: inlineHTMLNodes(li, nil)}},
		})
	}

	if len(list.Content) == 0 {
		return nil
	}
	return list
}

func convertHTMLCode(el *html.Node) *tiptap.Node {
	node := &tiptap.Node{
		Type:    "codeBlock",
		Content: []tiptap.Node{{Type: "text", Text: collectHTMLText(el)}},
	}
	// Язык указывается классом language-* на вложенном <code>
	if code := findElementByTagName(el, "code"); code != nil {
		for _, class := range strings.Fields(getAttrValue("class", code.Attr)) {
			if lang, ok := strings.CutPrefix(class, "language-"); ok {
				node.Attrs = map[string]interface{}{"language": lang}
				break
			}
		}
	}
	return node
}

func convertHTMLTable(el *html.Node) *tiptap.Node {
	table := &tiptap.Node{Type: "table"}

	iterNodes(el, func(child *html.Node) bool {
		if child.Type != html.ElementNode || child.Data != "tr" {
			return false
		}
		row := tiptap.Node{Type: "tableRow"}
		for cell := child.FirstChild; cell != nil; cell = cell.NextSibling {
			if cell.Type != html.ElementNode || (cell.Data != "td" && cell.Data != "th") {
				continue
			}
			cellType := "tableCell"
			if cell.Data == "th" {
				cellType = "tableHeader"
			}
			row.Content = append(row.Content, tiptap.Node{
				Type:    cellType,
				Content: []tiptap.Node{{Type: "paragraph", Content: inlineHTMLNodes(cell, nil)}},
			})
		}
		if len(row.Content) > 0 {
			table.Content = append(table.Content, row)
		}
		return true
	})

	if len(table.Content) == 0 {
		return nil
	}
	return table
}

func htmlImage(el *html.Node) *tiptap.Node {
	src := getAttrValue("src", el.Attr)
	if src == "" {
		return nil
	}
	attrs := map[string]interface{}{"src": src}
	if alt := getAttrValue("alt", el.Attr); alt != "" {
		attrs["alt"] = alt
	}
	return &tiptap.Node{Type: "image", Attrs: attrs}
}

// inlineHTMLNodes собирает текстовые ноды с марками из inline-содержимого элемента.
// marks — марки, унаследованные от родительских элементов форматирования.
func inlineHTMLNodes(el *html.Node, marks []tiptap.Mark) []tiptap.Node {
	var nodes []tiptap.Node

	for c := el.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if c.Data == "" {
				continue
			}
			node := tiptap.Node{Type: "text", Text: c.Data}
			if len(marks) > 0 {
				node.Marks = slices.Clone(marks)
			}
			nodes = append(nodes, node)
		case html.ElementNode:
			childMarks := marks
			switch c.Data {
			case "strong", "b":
				childMarks = appendMark(marks, tiptap.Mark{Type: "bold"})
			case "em", "i":
				childMarks = appendMark(marks, tiptap.Mark{Type: "italic"})
			case "s", "del", "strike":
				childMarks = appendMark(marks, tiptap.Mark{Type: "strike"})
			case "code":
				childMarks = appendMark(marks, tiptap.Mark{Type: "code"})
			case "a":
				childMarks = appendMark(marks, tiptap.Mark{
					Type: "link",
					Attrs: map[string]interface{}{
						"href":   getAttrValue("href", c.Attr),
						"target": "_blank",
					},
				})
			case "br":
				nodes = append(nodes, tiptap.Node{Type: "text", Text: "\n"})
				continue
			}
			nodes = append(nodes, inlineHTMLNodes(c, childMarks)...)
		}
	}

	return nodes
}

func appendMark(marks []tiptap.Mark, mark tiptap.Mark) []tiptap.Mark {
	out := make([]tiptap.Mark, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, mark)
}

func collectHTMLText(el *html.Node) string {
	var sb strings.Builder
	iterNodes(el, func(child *html.Node) bool {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
		return false
	})
	return strings.TrimSpace(sb.String())
}

func findElementByTagName(rootNode *html.Node, tagName string) *html.Node {
	var el *html.Node
	iterNodes(rootNode, func(child *html.Node) bool {
		if child.Type == html.ElementNode && child.Data == tagName {
			el = child
			return true
		}
		return false
	})
	return el
}

func getBody(rootNode *html.Node) *html.Node {
	return findElementByTagName(rootNode, "body")
}

func iterNodes(node *html.Node, f func(child *html.Node) bool) {
	if f(node) {
		return
	}
	for p := node.FirstChild; p != nil; p = p.NextSibling {
		iterNodes(p, f)
	}
}

func getAttrValue(key string, attrs []html.Attribute) string {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
