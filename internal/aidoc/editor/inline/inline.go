// Пакет inline преобразует строку с inline-разметкой Markdown в текстовые ноды Tree JSON.
// Поддерживается ограниченное подмножество: **жирный**, *курсив*, ~~зачеркнутый~~,
// `код` и [ссылка](url). Разбор выполняется за один проход слева направо,
// без вложенности; непарные маркеры выводятся как обычный текст.
package inline

import (
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

// Parse разбирает строку в последовательность текстовых нод с marks.
// Никогда не возвращает пустой список: для пустой строки возвращается
// одна нода с пробелом, чтобы нода-родитель всегда имела содержимое.
func Parse(text string) []tiptap.Node {
	if text == "" {
		return []tiptap.Node{textNode(" ", nil)}
	}

	var nodes []tiptap.Node
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			nodes = append(nodes, textNode(plain.String(), nil))
			plain.Reset()
		}
	}

	runes := []rune(text)
	i := 0
	for i < len(runes) {
		switch {
		case hasPrefix(runes, i, "**"):
			content, next, ok := scanDelimited(runes, i+2, "**")
			if !ok {
				plain.WriteString("**")
				i += 2
				continue
			}
			flush()
			nodes = append(nodes, textNode(content, []tiptap.Mark{{Type: "bold"}}))
			i = next

		case hasPrefix(runes, i, "~~"):
			content, next, ok := scanDelimited(runes, i+2, "~~")
			if !ok {
				plain.WriteString("~~")
				i += 2
				continue
			}
			flush()
			nodes = append(nodes, textNode(content, []tiptap.Mark{{Type: "strike"}}))
			i = next

		case runes[i] == '`':
			content, next, ok := scanDelimited(runes, i+1, "`")
			if !ok {
				plain.WriteRune('`')
				i++
				continue
			}
			flush()
			nodes = append(nodes, textNode(content, []tiptap.Mark{{Type: "code"}}))
			i = next

		case runes[i] == '*':
			content, next, ok := scanDelimited(runes, i+1, "*")
			if !ok {
				plain.WriteRune('*')
				i++
				continue
			}
			flush()
			nodes = append(nodes, textNode(content, []tiptap.Mark{{Type: "italic"}}))
			i = next

		case runes[i] == '[':
			label, href, next, ok := scanLink(runes, i)
			if !ok {
				plain.WriteRune('[')
				i++
				continue
			}
			flush()
			nodes = append(nodes, textNode(label, []tiptap.Mark{{
				Type:  "link",
				Attrs: map[string]interface{}{"href": href, "target": "_blank"},
			}}))
			i = next

		default:
			plain.WriteRune(runes[i])
			i++
		}
	}
	flush()

	if len(nodes) == 0 {
		return []tiptap.Node{textNode(" ", nil)}
	}
	return nodes
}

func textNode(text string, marks []tiptap.Mark) tiptap.Node {
	return tiptap.Node{Type: "text", Text: text, Marks: marks}
}

func hasPrefix(runes []rune, from int, prefix string) bool {
	p := []rune(prefix)
	if from+len(p) > len(runes) {
		return false
	}
	for i, r := range p {
		if runes[from+i] != r {
			return false
		}
	}
	return true
}

// scanDelimited ищет закрывающий разделитель начиная с from.
// Пустое содержимое ("****") считается непарным маркером.
func scanDelimited(runes []rune, from int, delim string) (string, int, bool) {
	for i := from; i < len(runes); i++ {
		if hasPrefix(runes, i, delim) {
			if i == from {
				return "", 0, false
			}
			return string(runes[from:i]), i + len([]rune(delim)), true
		}
	}
	return "", 0, false
}

// scanLink разбирает [label](url) начиная с позиции открывающей скобки.
func scanLink(runes []rune, from int) (label, href string, next int, ok bool) {
	closeBracket := -1
	for i := from + 1; i < len(runes); i++ {
		if runes[i] == ']' {
			closeBracket = i
			break
		}
	}
	if closeBracket < 0 || closeBracket+1 >= len(runes) || runes[closeBracket+1] != '(' {
		return "", "", 0, false
	}

	closeParen := -1
	for i := closeBracket + 2; i < len(runes); i++ {
		if runes[i] == ')' {
			closeParen = i
			break
		}
	}
	if closeParen < 0 {
		return "", "", 0, false
	}

	label = string(runes[from+1 : closeBracket])
	href = string(runes[closeBracket+2 : closeParen])
	if label == "" || href == "" {
		return "", "", 0, false
	}
	return label, href, closeParen + 1, true
}
