package tools

import (
	"context"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/business"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolHandler определяет сигнатуру функции-обработчика MCP инструмента.
// Получает контекст, business слой и параметры запроса.
type ToolHandler func(ctx context.Context, bl *business.Business, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Tool представляет MCP инструмент с его обработчиком.
type Tool struct {
	Tool    mcp.Tool
	Handler ToolHandler
}

// WrapTool оборачивает обработчик инструмента, привязывая business слой.
func WrapTool(bl *business.Business, handler ToolHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handler(ctx, bl, request)
	}
}
