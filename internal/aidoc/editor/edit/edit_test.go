package edit

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/normalize"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

func testEngine() *Engine {
	i := 0
	return NewEngineWithNormalizer(&normalize.Normalizer{GenerateID: func() string {
		i++
		return fmt.Sprintf("block-%d", i)
	}})
}

func paragraph(id, text string) tiptap.Node {
	return tiptap.Node{
		Type:    "paragraph",
		Attrs:   map[string]interface{}{"blockId": id},
		Content: []tiptap.Node{{Type: "text", Text: text}},
	}
}

func heading(id, text string, level int) tiptap.Node {
	return tiptap.Node{
		Type:    "heading",
		Attrs:   map[string]interface{}{"blockId": id, "level": level},
		Content: []tiptap.Node{{Type: "text", Text: text}},
	}
}

func fiveBlocks() *tiptap.Document {
	return &tiptap.Document{Type: "doc", Content: []tiptap.Node{
		paragraph("block-0", "ноль"),
		paragraph("block-1", "один"),
		paragraph("block-2", "два"),
		paragraph("block-3", "три"),
		paragraph("block-4", "четыре"),
	}}
}

func blockTexts(doc *tiptap.Document) []string {
	texts := make([]string, len(doc.Content))
	for i, node := range doc.Content {
		texts[i] = node.PlainText()
	}
	return texts
}

func TestApplyReplaceRange(t *testing.T) {
	result := testEngine().Apply(fiveBlocks(), []Operation{{
		Action:    ActionReplace,
		Target:    float64(1),
		EndTarget: float64(3),
		Content:   []interface{}{map[string]interface{}{"type": "paragraph", "text": "X"}},
	}})

	if result.OperationsApplied != 1 {
		t.Fatalf("applied = %d, warnings: %v", result.OperationsApplied, result.Warnings)
	}
	got := blockTexts(result.Doc)
	want := []string{"ноль", "X", "четыре"}
	if len(got) != 3 {
		t.Fatalf("blocks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("blocks = %v, want %v", got, want)
		}
	}
}

// Операции задаются в координатах исходного документа: replace по индексу 3
// должен попасть в исходный третий блок, а не в сдвинутый после вставки.
func TestApplyCumulativeOffsets(t *testing.T) {
	result := testEngine().Apply(fiveBlocks(), []Operation{
		{Action: ActionInsertAfter, Target: float64(0), Content: "A"},
		{Action: ActionReplace, Target: float64(3), EndTarget: float64(3), Content: "B\n\nC"},
	})

	if result.OperationsApplied != 2 {
		t.Fatalf("applied = %d, warnings: %v", result.OperationsApplied, result.Warnings)
	}
	got := blockTexts(result.Doc)
	want := []string{"ноль", "A", "один", "два", "B", "C", "четыре"}
	if len(got) != len(want) {
		t.Fatalf("blocks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("blocks = %v, want %v", got, want)
		}
	}
}

func TestApplyOrderIndependent(t *testing.T) {
	ops := []Operation{
		{Action: ActionReplace, Target: float64(3), EndTarget: float64(3), Content: "B\n\nC"},
		{Action: ActionInsertAfter, Target: float64(0), Content: "A"},
	}

	result := testEngine().Apply(fiveBlocks(), ops)
	got := blockTexts(result.Doc)
	want := []string{"ноль", "A", "один", "два", "B", "C", "четыре"}
	if len(got) != len(want) {
		t.Fatalf("blocks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("blocks = %v, want %v", got, want)
		}
	}
}

func TestApplyClampsOutOfRange(t *testing.T) {
	result := testEngine().Apply(fiveBlocks(), []Operation{
		{Action: ActionRemove, Target: float64(99)},
		{Action: ActionInsertBefore, Target: float64(-1), Content: "first"},
	})

	if result.OperationsApplied != 2 {
		t.Fatalf("applied = %d, warnings: %v", result.OperationsApplied, result.Warnings)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("warnings = %v, want 2 clamp warnings", result.Warnings)
	}
	got := blockTexts(result.Doc)
	// Удален последний блок, в начало вставлен новый
	want := []string{"first", "ноль", "один", "два", "три"}
	if len(got) != len(want) {
		t.Fatalf("blocks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("blocks = %v, want %v", got, want)
		}
	}
}

func TestApplyBlockIDTarget(t *testing.T) {
	result := testEngine().Apply(fiveBlocks(), []Operation{{
		Action:  ActionRemove,
		BlockID: "block-2",
	}})

	if result.OperationsApplied != 1 {
		t.Fatalf("applied = %d, warnings: %v", result.OperationsApplied, result.Warnings)
	}
	for _, text := range blockTexts(result.Doc) {
		if text == "два" {
			t.Error("block addressed by id must be removed")
		}
	}
}

func TestApplyHeadingTarget(t *testing.T) {
	doc := &tiptap.Document{Type: "doc", Content: []tiptap.Node{
		heading("block-h1", "Введение", 1),
		paragraph("block-p1", "текст"),
		heading("block-h2", "Обзор архитектуры", 2),
		paragraph("block-p2", "еще текст"),
	}}

	result := testEngine().Apply(doc, []Operation{{
		Action:  ActionInsertAfter,
		Target:  "обзор",
		Content: "вставка",
	}})

	if result.OperationsApplied != 1 {
		t.Fatalf("applied = %d, warnings: %v", result.OperationsApplied, result.Warnings)
	}
	if got := result.Doc.Content[3].PlainText(); got != "вставка" {
		t.Errorf("block 3 = %q, want вставка", got)
	}
}

func TestApplyAmbiguousHeading(t *testing.T) {
	doc := &tiptap.Document{Type: "doc", Content: []tiptap.Node{
		heading("block-h1", "Обзор", 1),
		paragraph("block-p1", "a"),
		heading("block-h2", "Обзор API", 2),
	}}

	result := testEngine().Apply(doc, []Operation{{
		Action:  ActionInsertAfter,
		Target:  "Обзор",
		Content: "x",
	}})

	if result.OperationsApplied != 1 {
		t.Fatalf("applied = %d", result.OperationsApplied)
	}
	// Используется первое совпадение, неоднозначность отражена в предупреждении
	if got := result.Doc.Content[1].PlainText(); got != "x" {
		t.Errorf("insert went to wrong position: %v", blockTexts(result.Doc))
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "несколькими") {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestApplyAllSkipped(t *testing.T) {
	result := testEngine().Apply(fiveBlocks(), []Operation{
		{Action: ActionInsertAfter, Target: "нет такого заголовка", Content: "x"},
		{Action: ActionReplace, Target: float64(1)}, // без содержимого
		{Action: "teleport"},
	})

	if result.OperationsApplied != 0 {
		t.Fatalf("applied = %d, want 0", result.OperationsApplied)
	}
	if len(result.Warnings) != 3 {
		t.Errorf("warnings = %v, want 3", result.Warnings)
	}
	// Документ не изменился
	if len(result.Doc.Content) != 5 {
		t.Errorf("document mutated: %v", blockTexts(result.Doc))
	}
}

func TestApplyRemoveAllYieldsParagraph(t *testing.T) {
	result := testEngine().Apply(fiveBlocks(), []Operation{{
		Action:    ActionRemove,
		Target:    float64(0),
		EndTarget: float64(4),
	}})

	if result.OperationsApplied != 1 {
		t.Fatalf("applied = %d", result.OperationsApplied)
	}
	if len(result.Doc.Content) != 1 || result.Doc.Content[0].Type != "paragraph" {
		t.Errorf("empty document must get one empty paragraph, got %v", result.Doc.Content)
	}
}

func TestApplyAppend(t *testing.T) {
	result := testEngine().Apply(fiveBlocks(), []Operation{
		{Action: ActionAppend, Content: "хвост"},
		{Action: ActionRemove, Target: float64(4)},
	})

	if result.OperationsApplied != 2 {
		t.Fatalf("applied = %d, warnings: %v", result.OperationsApplied, result.Warnings)
	}
	got := blockTexts(result.Doc)
	// append применяется последним и не участвует в поправке индексов
	want := []string{"ноль", "один", "два", "три", "хвост"}
	if len(got) != len(want) {
		t.Fatalf("blocks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("blocks = %v, want %v", got, want)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	doc := fiveBlocks()
	testEngine().Apply(doc, []Operation{{Action: ActionRemove, Target: float64(0)}})
	if len(doc.Content) != 5 {
		t.Error("input document must not be mutated")
	}
}

func TestApplyNewBlocksGetIDs(t *testing.T) {
	result := testEngine().Apply(fiveBlocks(), []Operation{{Action: ActionAppend, Content: "новый"}})
	last := result.Doc.Content[len(result.Doc.Content)-1]
	if last.BlockID() == "" {
		t.Error("appended block must get a blockId")
	}
}

func TestResolveTargetEndBeforeStart(t *testing.T) {
	result := testEngine().Apply(fiveBlocks(), []Operation{{
		Action:    ActionRemove,
		Target:    float64(3),
		EndTarget: float64(1),
	}})
	if result.OperationsApplied != 0 {
		t.Fatalf("applied = %d, want 0", result.OperationsApplied)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings = %v", result.Warnings)
	}
}
