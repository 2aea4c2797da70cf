// Пакет render сериализует Tree JSON в форматы для чтения: HTML, печатный
// HTML и Markdown. Сериализаторы — чистые функции без ошибок: любой документ,
// прошедший нормализацию, дает непустой результат, неизвестные ноды
// пропускаются с записью в лог.
package render

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

// ToHTML сериализует документ в HTML-фрагмент без обертки страницы.
// Результат проходит санитизацию.
func ToHTML(doc *tiptap.Document) string {
	if doc == nil {
		return ""
	}
	var sb strings.Builder
	for _, node := range doc.Content {
		writeNodeHTML(&sb, node)
	}
	return Sanitize(sb.String())
}

func writeNodeHTML(sb *strings.Builder, node tiptap.Node) {
	switch node.Type {
	case "text":
		writeTextHTML(sb, node)
	case "paragraph":
		sb.WriteString("<p>")
		writeChildrenHTML(sb, node)
		sb.WriteString("</p>")
	case "heading":
		level := tiptap.GetAttrInt(node.Attrs, "level")
		if level < 1 || level > 6 {
			level = 1
		}
		fmt.Fprintf(sb, "<h%d>", level)
		writeChildrenHTML(sb, node)
		fmt.Fprintf(sb, "</h%d>", level)
	case "bulletList":
		sb.WriteString("<ul>")
		writeChildrenHTML(sb, node)
		sb.WriteString("</ul>")
	case "orderedList":
		sb.WriteString("<ol>")
		writeChildrenHTML(sb, node)
		sb.WriteString("</ol>")
	case "listItem":
		sb.WriteString("<li>")
		writeChildrenHTML(sb, node)
		sb.WriteString("</li>")
	case "taskList":
		sb.WriteString(`<ul data-type="taskList">`)
		writeChildrenHTML(sb, node)
		sb.WriteString("</ul>")
	case "taskItem":
		checked := ""
		if tiptap.GetAttrBool(node.Attrs, "checked") {
			checked = " checked"
		}
		fmt.Fprintf(sb, `<li><input type="checkbox" disabled%s>`, checked)
		writeChildrenHTML(sb, node)
		sb.WriteString("</li>")
	case "blockquote":
		sb.WriteString("<blockquote>")
		writeChildrenHTML(sb, node)
		sb.WriteString("</blockquote>")
	case "codeBlock":
		lang := tiptap.GetAttrString(node.Attrs, "language")
		if lang != "" {
			fmt.Fprintf(sb, `<pre><code class="language-%s">`, html.EscapeString(lang))
		} else {
			sb.WriteString("<pre><code>")
		}
		sb.WriteString(html.EscapeString(node.PlainText()))
		sb.WriteString("</code></pre>")
	case "horizontalRule":
		sb.WriteString("<hr>")
	case "table":
		sb.WriteString("<table><tbody>")
		writeChildrenHTML(sb, node)
		sb.WriteString("</tbody></table>")
	case "tableRow":
		sb.WriteString("<tr>")
		writeChildrenHTML(sb, node)
		sb.WriteString("</tr>")
	case "tableHeader":
		sb.WriteString("<th>")
		writeChildrenHTML(sb, node)
		sb.WriteString("</th>")
	case "tableCell":
		sb.WriteString("<td>")
		writeChildrenHTML(sb, node)
		sb.WriteString("</td>")
	case "image":
		src := tiptap.GetAttrString(node.Attrs, "src")
		alt := tiptap.GetAttrString(node.Attrs, "alt")
		fmt.Fprintf(sb, `<img src="%s" alt="%s">`, html.EscapeString(src), html.EscapeString(alt))
	case "columns":
		sb.WriteString(`<div class="columns">`)
		writeChildrenHTML(sb, node)
		sb.WriteString("</div>")
	case "column":
		sb.WriteString(`<div class="column">`)
		writeChildrenHTML(sb, node)
		sb.WriteString("</div>")
	case "accordionGroup":
		sb.WriteString(`<div class="accordion">`)
		writeChildrenHTML(sb, node)
		sb.WriteString("</div>")
	case "accordionItem":
		sb.WriteString("<details open>")
		writeChildrenHTML(sb, node)
		sb.WriteString("</details>")
	case "accordionTitle":
		sb.WriteString("<summary>")
		writeChildrenHTML(sb, node)
		sb.WriteString("</summary>")
	case "accordionContent":
		sb.WriteString(`<div class="accordion-content">`)
		writeChildrenHTML(sb, node)
		sb.WriteString("</div>")
	default:
		slog.Debug("Skip unsupported node on HTML render", "type", node.Type)
	}
}

func writeChildrenHTML(sb *strings.Builder, node tiptap.Node) {
	for _, child := range node.Content {
		writeNodeHTML(sb, child)
	}
}

func writeTextHTML(sb *strings.Builder, node tiptap.Node) {
	text := html.EscapeString(node.Text)

	for i := len(node.Marks) - 1; i >= 0; i-- {
		switch mark := node.Marks[i]; mark.Type {
		case "bold":
			text = "<strong>" + text + "</strong>"
		case "italic":
			text = "<em>" + text + "</em>"
		case "strike":
			text = "<s>" + text + "</s>"
		case "code":
			text = "<code>" + text + "</code>"
		case "link":
			href := tiptap.GetAttrString(mark.Attrs, "href")
			text = fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`, html.EscapeString(href), text)
		}
	}

	sb.WriteString(text)
}
