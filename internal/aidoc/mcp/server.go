package mcp

import (
	"context"
	"log/slog"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/business"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/mcp/tools"
	"github.com/labstack/echo/v4"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// mcpInstructions содержит описание MCP сервера для LLM-моделей.
const mcpInstructions = `MCP сервер блочного редактирования документов AIDoc

## Формат документов
Документ хранится как дерево блоков. Блоки верхнего уровня: paragraph, heading,
bulletList, orderedList, taskList, blockquote, codeBlock, horizontalRule, table,
image, accordionGroup, columns. У каждого блока есть стабильный blockId.

## Рекомендуемый порядок работы
1. get_doc_structure — получить список блоков с индексами, типами и превью.
2. edit_doc_blocks — точечно изменить нужные блоки; все индексы считаются по
   состоянию документа ДО редактирования, поэтому операции можно передавать пакетом.
3. Для аккордеонов использовать edit_accordion_items, а не edit_doc_blocks.

## Адресация блоков
- числовой индекс (0-based, из структуры);
- подстрока заголовка (регистронезависимо, берётся первое совпадение);
- block_id — точный ID блока из структуры.

## Сложные блоки
Документы с блоками columns, accordion, database и подобными нельзя заменять
целиком (replace_doc_content вернёт ошибку) — редактируйте их через edit_doc_blocks.

## Содержимое
Параметр content принимает Markdown-текст (поддерживаются заголовки, списки,
цитаты, код, таблицы), JSON-список блоков или древовидный JSON-формат.
`

// NewMCPServer создаёт MCP сервер с доступом к business слою.
func NewMCPServer(bl *business.Business, version string) echo.HandlerFunc {
	hooks := &server.Hooks{}
	hooks.AddOnError(ErrorLoggerHook)

	srv := server.NewMCPServer(
		"aidoc-mcp",
		version,
		server.WithInstructions(mcpInstructions),
		server.WithHooks(hooks),
	)
	srv.AddTools(tools.GetDocsTools(bl)...)

	httpServer := server.NewStreamableHTTPServer(srv)
	return func(c echo.Context) error {
		httpServer.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}

func ErrorLoggerHook(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
	slog.Error("MCP Error", "id", id, "method", method, "message", message, "err", err)
}
