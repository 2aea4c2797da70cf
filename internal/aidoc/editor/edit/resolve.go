package edit

import (
	"fmt"
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

// ResolveTarget переводит адрес блока в индекс верхнего уровня.
// Адрес — число (индекс до применения правок) или строка (регистронезависимый
// поиск подстроки по заголовкам). label подставляется в тексты предупреждений.
//
// Выход за границы не ошибка: индекс прижимается к ближайшей валидной границе
// с предупреждением. Неоднозначный поиск разрешается в пользу первого
// совпадения, также с предупреждением. Возвращает ok=false только когда
// адрес отсутствует или поиск не дал совпадений.
func ResolveTarget(doc *tiptap.Document, target interface{}, label string) (int, bool, []string) {
	if target == nil {
		return 0, false, nil
	}

	length := len(doc.Content)

	switch v := target.(type) {
	case float64:
		return clampIndex(int(v), length, label)
	case int:
		return clampIndex(v, length, label)
	case string:
		if v == "" {
			return 0, false, nil
		}
		return resolveHeading(doc, v, label)
	default:
		return 0, false, []string{fmt.Sprintf("%s: неподдерживаемый тип адреса %T", label, target)}
	}
}

func clampIndex(index, length int, label string) (int, bool, []string) {
	if length == 0 {
		return 0, true, []string{fmt.Sprintf("%s: документ пуст, индекс %d заменен на 0", label, index)}
	}
	if index < 0 {
		return 0, true, []string{fmt.Sprintf("%s: индекс %d вне диапазона, использован 0", label, index)}
	}
	if index >= length {
		return length - 1, true, []string{fmt.Sprintf("%s: индекс %d вне диапазона, использован %d", label, index, length-1)}
	}
	return index, true, nil
}

func resolveHeading(doc *tiptap.Document, query, label string) (int, bool, []string) {
	needle := strings.ToLower(query)

	type match struct {
		index int
		text  string
	}
	var matches []match

	for i, node := range doc.Content {
		if node.Type != "heading" {
			continue
		}
		text := node.PlainText()
		if strings.Contains(strings.ToLower(text), needle) {
			matches = append(matches, match{index: i, text: text})
		}
	}

	switch len(matches) {
	case 0:
		return 0, false, []string{fmt.Sprintf("%s: заголовок по запросу %q не найден", label, query)}
	case 1:
		return matches[0].index, true, nil
	default:
		descriptions := make([]string, len(matches))
		for i, m := range matches {
			descriptions[i] = fmt.Sprintf("%d (%q)", m.index, m.text)
		}
		return matches[0].index, true, []string{fmt.Sprintf(
			"%s: запрос %q совпал с несколькими заголовками: %s; использован первый",
			label, query, strings.Join(descriptions, ", "))}
	}
}
