package edit

import (
	"testing"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

func TestResolveTarget(t *testing.T) {
	doc := &tiptap.Document{Type: "doc", Content: []tiptap.Node{
		heading("block-h1", "Введение", 1),
		paragraph("block-p1", "текст"),
		heading("block-h2", "Итоги", 2),
	}}

	tests := []struct {
		name      string
		target    interface{}
		wantIndex int
		wantOK    bool
		wantWarns int
	}{
		{"nil target", nil, 0, false, 0},
		{"valid index", float64(2), 2, true, 0},
		{"negative index clamps", float64(-5), 0, true, 1},
		{"overflow index clamps", float64(10), 2, true, 1},
		{"heading match", "итоги", 2, true, 0},
		{"heading substring", "введ", 0, true, 0},
		{"heading miss", "заключение", 0, false, 1},
		{"paragraph text is not searched", "текст", 0, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, ok, warns := ResolveTarget(doc, tt.target, "тест")
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (warns: %v)", ok, tt.wantOK, warns)
			}
			if ok && index != tt.wantIndex {
				t.Errorf("index = %d, want %d", index, tt.wantIndex)
			}
			if len(warns) != tt.wantWarns {
				t.Errorf("warnings = %v, want %d", warns, tt.wantWarns)
			}
		})
	}
}
