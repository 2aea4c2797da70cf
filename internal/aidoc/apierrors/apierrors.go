// Пакет содержит определения ошибок, используемых в приложении aidoc для обработки ситуаций, возникающих при работе с документами, их редактированием и экспортом. Каждая ошибка имеет код, статус HTTP и описание, что позволяет удобно обрабатывать исключения и предоставлять информативные сообщения пользователю.
//
// Основные возможности:
//   - Определение типов ошибок, связанных с документами, частичным редактированием, снимками и экспортом.
//   - Предоставление кодов ошибок, соответствующих кодам HTTP статусов.
//   - Включение сообщений об ошибках на двух языках для отображения пользователю.
//   - Функция для форматирования сообщений об ошибках с использованием аргументов.
//   - Конвертация ошибки в результат вызова MCP-инструмента.
package apierrors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

type DefinedError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
	RuErr      string `json:"ru_error,omitempty"`
}

func (e DefinedError) Error() string {
	return e.Err
}

var (
	// 1*** - generic errors
	ErrGeneric          = DefinedError{Code: 1001, StatusCode: http.StatusInternalServerError, Err: "internal server error", RuErr: "Внутренняя ошибка сервера"}
	ErrBadRequestEntity = DefinedError{Code: 1002, StatusCode: http.StatusBadRequest, Err: "bad request entity", RuErr: "Некорректный запрос"}
	ErrValidation       = DefinedError{Code: 1003, StatusCode: http.StatusBadRequest, Err: "validation failed: %s", RuErr: "Ошибка валидации: %s"}

	// 2*** - doc errors
	ErrDocNotFound         = DefinedError{Code: 2001, StatusCode: http.StatusNotFound, Err: "doc not found", RuErr: "Документ не найден"}
	ErrDocTitleRequired    = DefinedError{Code: 2002, StatusCode: http.StatusBadRequest, Err: "doc must have a title", RuErr: "Поле Название документа не может быть пустым"}
	ErrDocComplexBlocks    = DefinedError{Code: 2003, StatusCode: http.StatusConflict, Err: "doc contains complex blocks (%s): full content replacement would destroy them, use partial edit operations", RuErr: "Документ содержит сложные блоки (%s): полная замена содержимого уничтожит их, используйте частичное редактирование"}
	ErrDocSnapshotNotFound = DefinedError{Code: 2004, StatusCode: http.StatusNotFound, Err: "doc snapshot not found", RuErr: "Версия документа не найдена"}
	ErrDocParentNotFound   = DefinedError{Code: 2005, StatusCode: http.StatusNotFound, Err: "parent doc not found", RuErr: "Родительский документ не найден"}
	ErrDocLimitExceed      = DefinedError{Code: 2006, StatusCode: http.StatusForbidden, Err: "docs limit exceed", RuErr: "Превышен лимит документов"}
	ErrDocImportHTML       = DefinedError{Code: 2007, StatusCode: http.StatusBadRequest, Err: "cannot parse html", RuErr: "Не удалось разобрать HTML"}

	// 3*** - edit operation errors
	ErrEditNoOperations       = DefinedError{Code: 3001, StatusCode: http.StatusBadRequest, Err: "no edit operations provided", RuErr: "Не передано ни одной операции редактирования"}
	ErrEditAllOperationsFail  = DefinedError{Code: 3002, StatusCode: http.StatusBadRequest, Err: "no operations were applied: %s", RuErr: "Ни одна операция не была применена: %s"}
	ErrEditAccordionNotFound  = DefinedError{Code: 3003, StatusCode: http.StatusNotFound, Err: "accordion block not found", RuErr: "Блок аккордеона не найден"}
	ErrEditTargetNotAccordion = DefinedError{Code: 3004, StatusCode: http.StatusBadRequest, Err: "target block is not an accordion", RuErr: "Указанный блок не является аккордеоном"}

	// 4*** - export errors
	ErrExportUnknownFormat = DefinedError{Code: 4001, StatusCode: http.StatusBadRequest, Err: "unknown export format %q", RuErr: "Неизвестный формат экспорта %q"}
)

func (e DefinedError) WithFormattedMessage(args ...interface{}) DefinedError {
	if len(args) > 0 {
		e.Err = fmt.Sprintf(e.Err, args...)
		e.RuErr = fmt.Sprintf(e.RuErr, args...)
	} else {
		e.Err = strings.Replace(e.Err, "%s", "", -1)
		e.RuErr = strings.Replace(e.RuErr, "%s", "", -1)
	}
	return e
}

// MCPError оформляет ошибку как результат вызова MCP-инструмента.
// Подсказки добавляются отдельными строками после текста ошибки.
func (e DefinedError) MCPError(hints ...string) *mcp.CallToolResult {
	msg := e.Err
	if len(hints) > 0 {
		msg += "\n" + strings.Join(hints, "\n")
	}
	return mcp.NewToolResultError(msg)
}
