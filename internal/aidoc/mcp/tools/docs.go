// Пакет tools содержит MCP инструменты для работы с документами.
// Предоставляет функциональность для чтения, создания и блочного редактирования документов.
package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/business"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dao"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dto"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/edit"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/mcp/logger"
	"github.com/gofrs/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// docContextKey - типизированный ключ для контекста документа.
type docContextKey struct{}

// docsTools содержит список MCP инструментов для работы с документами.
var docsTools = []Tool{
	{
		mcp.NewTool(
			"get_doc",
			mcp.WithDescription("Получение документа по его ID"),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithString("doc_id",
				mcp.Required(),
				mcp.Description("ID документа (UUID)"),
			),
		),
		DocMiddleware(getDoc),
	},
	{
		mcp.NewTool(
			"create_doc",
			mcp.WithDescription("Создание документа"),
			mcp.WithIdempotentHintAnnotation(false),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Название документа (макс. 150 символов)"),
			),
			mcp.WithString("content",
				mcp.Description("Содержимое документа: Markdown-текст или JSON (древовидный формат либо список блоков)"),
			),
			mcp.WithString("parent_doc_id",
				mcp.Description("ID родительского документа (UUID) для создания вложенного"),
			),
			mcp.WithBoolean("draft",
				mcp.Description("Создать как черновик (по умолчанию false)"),
			),
		),
		createDoc,
	},
	{
		mcp.NewTool(
			"get_doc_structure",
			mcp.WithDescription("Получение структуры документа: список блоков верхнего уровня с типами и превью текста. Используйте перед редактированием, чтобы узнать индексы и ID блоков"),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithString("doc_id",
				mcp.Required(),
				mcp.Description("ID документа (UUID)"),
			),
		),
		DocMiddleware(getDocStructure),
	},
	{
		mcp.NewTool(
			"edit_doc_blocks",
			mcp.WithDescription("Точечное редактирование блоков документа. Индексы всех операций считаются по состоянию документа до редактирования. Адрес блока: числовой индекс, подстрока заголовка или block_id из структуры"),
			mcp.WithIdempotentHintAnnotation(false),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithString("doc_id",
				mcp.Required(),
				mcp.Description("ID документа (UUID)"),
			),
			mcp.WithString("operations",
				mcp.Required(),
				mcp.Description(`JSON-массив операций. Каждая операция: {"action": "insert_before|insert_after|replace|remove|append", "target": индекс или подстрока заголовка, "end_target": конец диапазона (для replace/remove), "block_id": точный ID блока, "content": Markdown-текст или блоки}`),
			),
		),
		DocMiddleware(editDocBlocks),
	},
	{
		mcp.NewTool(
			"replace_doc_content",
			mcp.WithDescription("Полная замена содержимого документа. Отклоняется, если документ содержит сложные блоки (колонки, аккордеоны, таблицы БД) — для таких документов используйте edit_doc_blocks"),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithString("doc_id",
				mcp.Required(),
				mcp.Description("ID документа (UUID)"),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("Новое содержимое: Markdown-текст или JSON (древовидный формат либо список блоков)"),
			),
		),
		DocMiddleware(replaceDocContent),
	},
	{
		mcp.NewTool(
			"edit_accordion_items",
			mcp.WithDescription("Редактирование секций блока-аккордеона: добавление, изменение и удаление секций"),
			mcp.WithIdempotentHintAnnotation(false),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithString("doc_id",
				mcp.Required(),
				mcp.Description("ID документа (UUID)"),
			),
			mcp.WithString("block_id",
				mcp.Description("ID блока-аккордеона из структуры документа"),
			),
			mcp.WithNumber("target",
				mcp.Description("Индекс блока-аккордеона, если block_id не указан"),
			),
			mcp.WithString("operations",
				mcp.Required(),
				mcp.Description(`JSON-массив операций. Каждая операция: {"action": "add|update|remove", "items": [{"title", "content", "icon", "icon_color", "title_color"}], "position": позиция вставки, "item_index": индекс секции, "count": число удаляемых, "title", "content"}`),
			),
		),
		DocMiddleware(editDocAccordion),
	},
}

// GetDocsTools возвращает список MCP инструментов для работы с документами.
func GetDocsTools(bl *business.Business) []server.ServerTool {
	result := make([]server.ServerTool, 0, len(docsTools))
	for _, t := range docsTools {
		result = append(result, server.ServerTool{
			Tool:    t.Tool,
			Handler: WrapTool(bl, t.Handler),
		})
	}
	return result
}

// DocMiddleware находит документ по doc_id и кладёт его в контекст обработчика.
func DocMiddleware(handler ToolHandler) ToolHandler {
	return func(ctx context.Context, bl *business.Business, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		docId, errResult := parseDocId(request)
		if errResult != nil {
			return errResult, nil
		}

		doc, err := bl.GetDoc(docId)
		if err != nil {
			return logger.Error(err), nil
		}

		ctx = context.WithValue(ctx, docContextKey{}, *doc)
		return handler(ctx, bl, request)
	}
}

// parseDocId извлекает и валидирует doc_id из параметров запроса.
func parseDocId(request mcp.CallToolRequest) (uuid.UUID, *mcp.CallToolResult) {
	docIdRaw, ok := request.GetArguments()["doc_id"]
	if !ok {
		return uuid.Nil, mcp.NewToolResultError("doc_id обязателен")
	}

	docIdStr, ok := docIdRaw.(string)
	if !ok {
		return uuid.Nil, mcp.NewToolResultError("doc_id должен быть строкой")
	}

	docId, err := uuid.FromString(docIdStr)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError("некорректный формат doc_id (ожидается UUID)")
	}

	return docId, nil
}

// parseContentArg разбирает параметр content: JSON разбирается в произвольное
// значение, остальной текст трактуется как Markdown.
func parseContentArg(raw string) interface{} {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var v interface{}
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return v
		}
	}
	return raw
}

// getDoc возвращает полную информацию о документе.
func getDoc(ctx context.Context, bl *business.Business, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := ctx.Value(docContextKey{}).(dao.Doc)
	return mcp.NewToolResultJSON(bl.ToDTO(&doc))
}

// createDoc создаёт новый документ.
func createDoc(ctx context.Context, bl *business.Business, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok {
		return mcp.NewToolResultError("title обязателен"), nil
	}
	title = strings.TrimSpace(title)
	if len(title) == 0 {
		return mcp.NewToolResultError("title не может быть пустым"), nil
	}
	if len(title) > 150 {
		return mcp.NewToolResultError("title не должен превышать 150 символов"), nil
	}

	req := dto.DocCreateRequest{Title: title}
	if content, ok := args["content"].(string); ok && content != "" {
		req.Content = parseContentArg(content)
	}
	if parentDocId, ok := args["parent_doc_id"].(string); ok && parentDocId != "" {
		if _, err := uuid.FromString(parentDocId); err != nil {
			return mcp.NewToolResultError("некорректный формат parent_doc_id (ожидается UUID)"), nil
		}
		req.ParentDocID = &parentDocId
	}
	req.Draft, _ = args["draft"].(bool)

	doc, err := bl.CreateDoc(req)
	if err != nil {
		return logger.Error(err), nil
	}

	return mcp.NewToolResultJSON(bl.ToDTO(doc))
}

// getDocStructure возвращает структуру документа.
func getDocStructure(ctx context.Context, bl *business.Business, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := ctx.Value(docContextKey{}).(dao.Doc)
	return mcp.NewToolResultJSON(bl.GetStructure(&doc))
}

// editDocBlocks применяет пакет операций редактирования к блокам документа.
func editDocBlocks(ctx context.Context, bl *business.Business, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := ctx.Value(docContextKey{}).(dao.Doc)

	operationsRaw, ok := request.GetArguments()["operations"].(string)
	if !ok {
		return mcp.NewToolResultError("operations обязателен"), nil
	}

	var operations []edit.Operation
	if err := json.Unmarshal([]byte(operationsRaw), &operations); err != nil {
		return mcp.NewToolResultError("operations должен быть JSON-массивом операций: " + err.Error()), nil
	}

	res, err := bl.EditBlocks(&doc, operations)
	if err != nil {
		return logger.Error(err, "запросите структуру документа через get_doc_structure и проверьте адреса блоков"), nil
	}

	return mcp.NewToolResultJSON(res)
}

// replaceDocContent полностью заменяет содержимое документа.
func replaceDocContent(ctx context.Context, bl *business.Business, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := ctx.Value(docContextKey{}).(dao.Doc)

	content, ok := request.GetArguments()["content"].(string)
	if !ok {
		return mcp.NewToolResultError("content обязателен"), nil
	}

	if err := bl.ReplaceContent(&doc, parseContentArg(content)); err != nil {
		return logger.Error(err, "для документов со сложными блоками используйте edit_doc_blocks"), nil
	}

	return mcp.NewToolResultJSON(bl.ToDTO(&doc))
}

// editDocAccordion редактирует секции блока-аккордеона.
func editDocAccordion(ctx context.Context, bl *business.Business, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := ctx.Value(docContextKey{}).(dao.Doc)
	args := request.GetArguments()

	operationsRaw, ok := args["operations"].(string)
	if !ok {
		return mcp.NewToolResultError("operations обязателен"), nil
	}

	var operations []edit.AccordionOperation
	if err := json.Unmarshal([]byte(operationsRaw), &operations); err != nil {
		return mcp.NewToolResultError("operations должен быть JSON-массивом операций: " + err.Error()), nil
	}

	req := dto.DocEditAccordionRequest{Operations: operations}
	req.BlockID, _ = args["block_id"].(string)
	if target, ok := args["target"]; ok {
		req.Target = target
	}

	res, err := bl.EditAccordion(&doc, req)
	if err != nil {
		return logger.Error(err, "запросите структуру документа через get_doc_structure и найдите блок типа accordion"), nil
	}

	return mcp.NewToolResultJSON(res)
}
