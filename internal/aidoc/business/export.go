package business

import (
	"io"
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/dao"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/content"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/render"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/structure"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

// Форматы экспорта документа.
const (
	ExportFormatHTML     = "html"
	ExportFormatPrint    = "print"
	ExportFormatMarkdown = "markdown"
)

// Export сериализует документ в указанный формат. Возвращает содержимое
// и MIME-тип ответа.
func (b *Business) Export(doc *dao.Doc, format string) (string, string, error) {
	switch format {
	case ExportFormatHTML:
		return render.ToHTML(doc.Content.Document), "text/html; charset=utf-8", nil
	case ExportFormatPrint:
		return render.ToPrintHTML(doc.Title, doc.Content.Document), "text/html; charset=utf-8", nil
	case ExportFormatMarkdown:
		return render.ToMarkdown(doc.Content.Document), "text/markdown; charset=utf-8", nil
	default:
		return "", "", apierrors.ErrExportUnknownFormat.WithFormattedMessage(format)
	}
}

// ImportHTML заменяет содержимое документа разобранным HTML.
// Действует как полная замена и подчиняется тем же ограничениям
// на сложные блоки.
func (b *Business) ImportHTML(doc *dao.Doc, r io.Reader) error {
	nodes, err := content.ParseHTML(r)
	if err != nil {
		return apierrors.ErrDocImportHTML
	}

	if complexTypes := structure.ComplexBlockTypes(doc.Content.Document); len(complexTypes) > 0 {
		return apierrors.ErrDocComplexBlocks.WithFormattedMessage(strings.Join(complexTypes, ", "))
	}

	newContent := tiptap.AssignBlockIDs(tiptap.NewDocument(nodes), b.norm.GenerateID)
	return b.persistContent(doc, newContent)
}
