package content

import (
	"strings"
	"testing"
)

func TestConvertHeading(t *testing.T) {
	tests := []struct {
		name      string
		block     map[string]interface{}
		wantLevel int
	}{
		{
			name:      "explicit level",
			block:     map[string]interface{}{"type": "heading", "level": float64(2), "text": "Заголовок"},
			wantLevel: 2,
		},
		{
			name:      "missing level defaults to 1",
			block:     map[string]interface{}{"type": "heading", "text": "Заголовок"},
			wantLevel: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := ConvertBlock(tt.block)
			if node == nil {
				t.Fatal("expected node, got nil")
			}
			if node.Type != "heading" {
				t.Errorf("type = %q, want heading", node.Type)
			}
			if got := node.Attrs["level"]; got != tt.wantLevel {
				t.Errorf("level = %v, want %d", got, tt.wantLevel)
			}
			if node.PlainText() != "Заголовок" {
				t.Errorf("text = %q", node.PlainText())
			}
		})
	}
}

func TestConvertTableShape(t *testing.T) {
	block := map[string]interface{}{
		"type":    "table",
		"headers": []interface{}{"Имя", "Роль"},
		"rows": []interface{}{
			[]interface{}{"Анна", "Админ"},
			[]interface{}{"Петр", "Гость"},
		},
	}

	node := ConvertBlock(block)
	if node == nil || node.Type != "table" {
		t.Fatalf("expected table node, got %+v", node)
	}
	// Строка заголовков плюс две строки данных
	if len(node.Content) != 3 {
		t.Fatalf("rows = %d, want 3", len(node.Content))
	}

	headerRow := node.Content[0]
	if len(headerRow.Content) != 2 {
		t.Fatalf("header cells = %d, want 2", len(headerRow.Content))
	}
	for _, cell := range headerRow.Content {
		if cell.Type != "tableHeader" {
			t.Errorf("header cell type = %q", cell.Type)
		}
		if len(cell.Content) != 1 || cell.Content[0].Type != "paragraph" {
			t.Errorf("header cell must wrap a paragraph, got %+v", cell.Content)
		}
	}
	for _, row := range node.Content[1:] {
		for _, cell := range row.Content {
			if cell.Type != "tableCell" {
				t.Errorf("data cell type = %q", cell.Type)
			}
		}
	}
}

func TestConvertChecklist(t *testing.T) {
	block := map[string]interface{}{
		"type": "checklist",
		"items": []interface{}{
			map[string]interface{}{"text": "Сделано", "checked": true},
			"Просто текст",
		},
	}

	node := ConvertBlock(block)
	if node == nil || node.Type != "taskList" {
		t.Fatalf("expected taskList, got %+v", node)
	}
	if len(node.Content) != 2 {
		t.Fatalf("items = %d, want 2", len(node.Content))
	}
	if checked := node.Content[0].Attrs["checked"]; checked != true {
		t.Errorf("first item checked = %v, want true", checked)
	}
	if checked := node.Content[1].Attrs["checked"]; checked != false {
		t.Errorf("second item checked = %v, want false", checked)
	}
}

func TestConvertColumnsDefaults(t *testing.T) {
	node := ConvertBlock(map[string]interface{}{"type": "columns"})
	if node == nil || node.Type != "columns" {
		t.Fatalf("expected columns, got %+v", node)
	}
	if len(node.Content) != 2 {
		t.Fatalf("empty columns block must produce two columns, got %d", len(node.Content))
	}
	for _, col := range node.Content {
		if col.Type != "column" || len(col.Content) != 1 || col.Content[0].Type != "paragraph" {
			t.Errorf("column must contain one empty paragraph, got %+v", col)
		}
	}
}

func TestConvertAccordionDefaults(t *testing.T) {
	node := ConvertBlock(map[string]interface{}{"type": "accordion"})
	if node == nil || node.Type != "accordionGroup" {
		t.Fatalf("expected accordionGroup, got %+v", node)
	}
	if len(node.Content) != 1 {
		t.Fatalf("empty accordion must get one default item, got %d", len(node.Content))
	}

	item := node.Content[0]
	if item.Type != "accordionItem" || len(item.Content) != 2 {
		t.Fatalf("malformed accordion item: %+v", item)
	}
	title := item.Content[0]
	if title.Type != "accordionTitle" {
		t.Fatalf("first child must be title, got %q", title.Type)
	}
	if title.PlainText() != "Section" {
		t.Errorf("default title = %q, want Section", title.PlainText())
	}
	if title.Attrs["icon"] != DefaultAccordionIcon {
		t.Errorf("icon = %v", title.Attrs["icon"])
	}
	if title.Attrs["iconColor"] != DefaultAccordionIconColor {
		t.Errorf("iconColor = %v", title.Attrs["iconColor"])
	}
	if item.Content[1].Type != "accordionContent" {
		t.Errorf("second child must be content, got %q", item.Content[1].Type)
	}
}

func TestConvertUnknownKind(t *testing.T) {
	if node := ConvertBlock(map[string]interface{}{"type": "hologram"}); node != nil {
		t.Errorf("unknown kind without text must be skipped, got %+v", node)
	}

	node := ConvertBlock(map[string]interface{}{"type": "hologram", "text": "fallback"})
	if node == nil || node.Type != "paragraph" {
		t.Fatalf("unknown kind with text must degrade to paragraph, got %+v", node)
	}
	if node.PlainText() != "fallback" {
		t.Errorf("text = %q", node.PlainText())
	}
}

func TestConvertBlocksSkipsMalformed(t *testing.T) {
	nodes := ConvertBlocks([]interface{}{
		map[string]interface{}{"type": "paragraph", "text": "ok"},
		42,
		map[string]interface{}{"type": "divider"},
	})
	if len(nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(nodes))
	}
	if nodes[0].Type != "paragraph" || nodes[1].Type != "horizontalRule" {
		t.Errorf("unexpected nodes: %+v", nodes)
	}
}

func TestParseMarkdown(t *testing.T) {
	nodes := ParseMarkdown("# Title\n\nSome **bold** text.\n\n- one\n- two\n\n---")
	if len(nodes) != 4 {
		t.Fatalf("blocks = %d, want 4: %+v", len(nodes), nodes)
	}
	if nodes[0].Type != "heading" || nodes[0].Attrs["level"] != 1 {
		t.Errorf("first block: %+v", nodes[0])
	}
	if nodes[1].Type != "paragraph" {
		t.Errorf("second block: %+v", nodes[1])
	}
	hasBold := false
	for _, run := range nodes[1].Content {
		for _, mark := range run.Marks {
			if mark.Type == "bold" {
				hasBold = true
			}
		}
	}
	if !hasBold {
		t.Error("inline markup inside markdown paragraph must be parsed")
	}
	if nodes[2].Type != "bulletList" || len(nodes[2].Content) != 2 {
		t.Errorf("third block: %+v", nodes[2])
	}
	if nodes[3].Type != "horizontalRule" {
		t.Errorf("fourth block: %+v", nodes[3])
	}
}

func TestParseMarkdownCode(t *testing.T) {
	nodes := ParseMarkdown("```go\nfmt.Println(\"hi\")\n```")
	if len(nodes) != 1 || nodes[0].Type != "codeBlock" {
		t.Fatalf("expected codeBlock, got %+v", nodes)
	}
	if nodes[0].Attrs["language"] != "go" {
		t.Errorf("language = %v", nodes[0].Attrs["language"])
	}
	if nodes[0].Content[0].Text != "fmt.Println(\"hi\")" {
		t.Errorf("code text = %q", nodes[0].Content[0].Text)
	}
}

func TestParseHTML(t *testing.T) {
	src := `<h2>Раздел</h2><p>Текст со <strong>смыслом</strong> и <a href="https://example.com">ссылкой</a>.</p><ul><li>один</li><li>два</li></ul>`
	nodes, err := ParseHTML(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 3 {
		t.Fatalf("blocks = %d, want 3: %+v", len(nodes), nodes)
	}
	if nodes[0].Type != "heading" || nodes[0].Attrs["level"] != 2 {
		t.Errorf("heading: %+v", nodes[0])
	}

	var boldText, linkHref string
	for _, run := range nodes[1].Content {
		for _, mark := range run.Marks {
			switch mark.Type {
			case "bold":
				boldText = run.Text
			case "link":
				linkHref, _ = mark.Attrs["href"].(string)
			}
		}
	}
	if boldText != "смыслом" {
		t.Errorf("bold run = %q", boldText)
	}
	if linkHref != "https://example.com" {
		t.Errorf("link href = %q", linkHref)
	}

	if nodes[2].Type != "bulletList" || len(nodes[2].Content) != 2 {
		t.Errorf("list: %+v", nodes[2])
	}
}
