package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/business"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/config"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dto"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestBL создает business слой поверх тестовой SQLite БД в памяти
func setupTestBL(t *testing.T) *business.Business {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Упрощённые таблицы вручную (без PostgreSQL-специфичных типов)
	err = db.Exec(`
		CREATE TABLE docs (
			id TEXT PRIMARY KEY,
			created_at DATETIME,
			updated_at DATETIME,
			title TEXT,
			content TEXT,
			parent_doc_id TEXT,
			seq_id INTEGER,
			draft INTEGER DEFAULT 0
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE doc_snapshots (
			id TEXT PRIMARY KEY,
			created_at DATETIME,
			doc_id TEXT,
			seq_id INTEGER,
			title TEXT,
			content TEXT
		)
	`).Error
	require.NoError(t, err)

	return business.NewBL(db, &config.Config{})
}

// createTestRequest создает MCP CallToolRequest с заданными аргументами
func createTestRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestParseDocId(t *testing.T) {
	_, errResult := parseDocId(createTestRequest(map[string]interface{}{}))
	require.NotNil(t, errResult)

	_, errResult = parseDocId(createTestRequest(map[string]interface{}{"doc_id": 42}))
	require.NotNil(t, errResult)

	_, errResult = parseDocId(createTestRequest(map[string]interface{}{"doc_id": "not-a-uuid"}))
	require.NotNil(t, errResult)

	bl := setupTestBL(t)
	doc, err := bl.CreateDoc(dto.DocCreateRequest{Title: "Документ"})
	require.NoError(t, err)

	id, errResult := parseDocId(createTestRequest(map[string]interface{}{"doc_id": doc.GetId()}))
	require.Nil(t, errResult)
	assert.Equal(t, doc.ID, id)
}

func TestParseContentArg(t *testing.T) {
	// Markdown остаётся строкой
	assert.Equal(t, "# Заголовок", parseContentArg("# Заголовок"))

	// Валидный JSON разбирается в значение
	v := parseContentArg(`[{"kind":"paragraph","text":"абзац"}]`)
	blocks, ok := v.([]interface{})
	require.True(t, ok)
	require.Len(t, blocks, 1)

	// Невалидный JSON с JSON-префиксом остаётся строкой
	assert.Equal(t, "[не json", parseContentArg("[не json"))
}

func TestCreateDocTool(t *testing.T) {
	bl := setupTestBL(t)

	res, err := createDoc(context.Background(), bl, createTestRequest(map[string]interface{}{
		"title":   "Новый документ",
		"content": "# Обзор\n\nТекст",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var doc dto.Doc
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &doc))
	assert.Equal(t, "Новый документ", doc.Title)
	require.NotNil(t, doc.Content.Document)
	assert.Equal(t, "heading", doc.Content.Document.Content[0].Type)
}

func TestCreateDocToolValidation(t *testing.T) {
	bl := setupTestBL(t)

	res, err := createDoc(context.Background(), bl, createTestRequest(map[string]interface{}{
		"title": "   ",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestEditDocBlocksTool(t *testing.T) {
	bl := setupTestBL(t)
	doc, err := bl.CreateDoc(dto.DocCreateRequest{Title: "Документ", Content: "старый текст"})
	require.NoError(t, err)

	handler := DocMiddleware(editDocBlocks)
	res, err := handler(context.Background(), bl, createTestRequest(map[string]interface{}{
		"doc_id":     doc.GetId(),
		"operations": `[{"action":"replace","target":0,"content":"новый текст"}]`,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var editRes dto.DocEditResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &editRes))
	assert.Equal(t, 1, editRes.OperationsApplied)

	stored, err := bl.GetDoc(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "новый текст", stored.Content.Document.Content[0].PlainText())
}

func TestEditDocBlocksToolBadOperations(t *testing.T) {
	bl := setupTestBL(t)
	doc, err := bl.CreateDoc(dto.DocCreateRequest{Title: "Документ"})
	require.NoError(t, err)

	handler := DocMiddleware(editDocBlocks)
	res, err := handler(context.Background(), bl, createTestRequest(map[string]interface{}{
		"doc_id":     doc.GetId(),
		"operations": "не json",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestDocMiddlewareNotFound(t *testing.T) {
	bl := setupTestBL(t)

	handler := DocMiddleware(getDoc)
	res, err := handler(context.Background(), bl, createTestRequest(map[string]interface{}{
		"doc_id": "00000000-0000-0000-0000-000000000001",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
