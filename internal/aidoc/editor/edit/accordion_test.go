package edit

import (
	"errors"
	"testing"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/content"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func accordionDoc(titles ...string) *tiptap.Document {
	group := tiptap.Node{
		Type:  "accordionGroup",
		Attrs: map[string]interface{}{"blockId": "block-acc"},
	}
	for _, title := range titles {
		group.Content = append(group.Content, content.AccordionItemNode(title, nil, "", "", ""))
	}
	return &tiptap.Document{Type: "doc", Content: []tiptap.Node{
		paragraph("block-intro", "вступление"),
		group,
	}}
}

func itemTitles(node tiptap.Node) []string {
	titles := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		for _, child := range item.Content {
			if child.Type == "accordionTitle" {
				titles = append(titles, child.PlainText())
			}
		}
	}
	return titles
}

func TestEditAccordionAdd(t *testing.T) {
	result, err := testEngine().EditAccordion(accordionDoc("Первый", "Второй"), nil, "block-acc", []AccordionOperation{{
		Action:   AccordionActionAdd,
		Position: intPtr(1),
		Items:    []AccordionItem{{Title: "Вставленный", Content: "текст"}},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if result.OperationsApplied != 1 {
		t.Fatalf("applied = %d, warnings: %v", result.OperationsApplied, result.Warnings)
	}

	titles := itemTitles(result.Doc.Content[1])
	want := []string{"Первый", "Вставленный", "Второй"}
	if len(titles) != len(want) {
		t.Fatalf("titles = %v", titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("titles = %v, want %v", titles, want)
		}
	}
}

// Индексы операций относятся к текущему состоянию списка, не к исходному.
func TestEditAccordionSequentialIndices(t *testing.T) {
	result, err := testEngine().EditAccordion(accordionDoc("A", "B", "C"), nil, "block-acc", []AccordionOperation{
		{Action: AccordionActionRemove, ItemIndex: intPtr(0)},
		// После удаления A элемент с индексом 0 — это B
		{Action: AccordionActionUpdate, ItemIndex: intPtr(0), Title: strPtr("B2")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.OperationsApplied != 2 {
		t.Fatalf("applied = %d, warnings: %v", result.OperationsApplied, result.Warnings)
	}

	titles := itemTitles(result.Doc.Content[1])
	want := []string{"B2", "C"}
	if len(titles) != len(want) {
		t.Fatalf("titles = %v", titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("titles = %v, want %v", titles, want)
		}
	}
}

func TestEditAccordionPartialUpdate(t *testing.T) {
	result, err := testEngine().EditAccordion(accordionDoc("Раздел"), nil, "block-acc", []AccordionOperation{{
		Action:    AccordionActionUpdate,
		ItemIndex: intPtr(0),
		IconColor: strPtr("#ff0000"),
	}})
	if err != nil {
		t.Fatal(err)
	}

	item := result.Doc.Content[1].Content[0]
	title := item.Content[0]
	// Заголовок не передавался и не должен измениться
	if title.PlainText() != "Раздел" {
		t.Errorf("title = %q", title.PlainText())
	}
	if got := tiptap.GetAttrString(title.Attrs, "iconColor"); got != "#ff0000" {
		t.Errorf("iconColor = %q", got)
	}
	if got := tiptap.GetAttrString(title.Attrs, "icon"); got != content.DefaultAccordionIcon {
		t.Errorf("icon must stay default, got %q", got)
	}
}

func TestEditAccordionRemoveClampsCount(t *testing.T) {
	result, err := testEngine().EditAccordion(accordionDoc("A", "B", "C"), nil, "block-acc", []AccordionOperation{{
		Action:    AccordionActionRemove,
		ItemIndex: intPtr(1),
		Count:     10,
	}})
	if err != nil {
		t.Fatal(err)
	}
	if result.OperationsApplied != 1 {
		t.Fatalf("applied = %d", result.OperationsApplied)
	}

	titles := itemTitles(result.Doc.Content[1])
	if len(titles) != 1 || titles[0] != "A" {
		t.Errorf("titles = %v, want [A]", titles)
	}
}

func TestEditAccordionRemoveAll(t *testing.T) {
	result, err := testEngine().EditAccordion(accordionDoc("A", "B"), nil, "block-acc", []AccordionOperation{{
		Action:    AccordionActionRemove,
		ItemIndex: intPtr(0),
		Count:     2,
	}})
	if err != nil {
		t.Fatal(err)
	}

	// Аккордеон без элементов невалиден и заменяется пустым параграфом
	if got := result.Doc.Content[1].Type; got != "paragraph" {
		t.Errorf("empty accordion must become a paragraph, got %q", got)
	}
}

func TestEditAccordionOutOfRangeSkipped(t *testing.T) {
	result, err := testEngine().EditAccordion(accordionDoc("A"), nil, "block-acc", []AccordionOperation{
		{Action: AccordionActionUpdate, ItemIndex: intPtr(5), Title: strPtr("x")},
		{Action: AccordionActionAdd, Items: []AccordionItem{{Title: "B"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.OperationsApplied != 1 {
		t.Fatalf("applied = %d, want 1", result.OperationsApplied)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestEditAccordionWrongTargetType(t *testing.T) {
	_, err := testEngine().EditAccordion(accordionDoc("A"), nil, "block-intro", nil)
	if !errors.Is(err, ErrNotAccordion) {
		t.Fatalf("err = %v, want ErrNotAccordion", err)
	}

	_, err = testEngine().EditAccordion(accordionDoc("A"), nil, "block-missing", nil)
	if !errors.Is(err, ErrAccordionNotFound) {
		t.Fatalf("err = %v, want ErrAccordionNotFound", err)
	}
}

func TestEditAccordionByIndex(t *testing.T) {
	result, err := testEngine().EditAccordion(accordionDoc("A"), float64(1), "", []AccordionOperation{{
		Action: AccordionActionAdd,
		Items:  []AccordionItem{{Title: "B"}},
	}})
	if err != nil {
		t.Fatal(err)
	}
	titles := itemTitles(result.Doc.Content[1])
	if len(titles) != 2 {
		t.Errorf("titles = %v", titles)
	}
}
