package render

import (
	"html/template"
	"log/slog"
	"strings"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
)

var minifier *minify.M = minify.New()

func init() {
	minifier.AddFunc("text/html", minhtml.Minify)
}

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; color: #1f2937; max-width: 800px; margin: 0 auto; padding: 32px; line-height: 1.6; }
h1, h2, h3, h4, h5, h6 { line-height: 1.25; margin: 1.2em 0 0.5em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
th, td { border: 1px solid #d1d5db; padding: 6px 10px; text-align: left; }
th { background: #f3f4f6; }
pre { background: #f3f4f6; border-radius: 6px; padding: 12px; overflow-x: auto; }
code { font-family: "SF Mono", Consolas, monospace; font-size: 0.9em; }
blockquote { border-left: 3px solid #d1d5db; margin-left: 0; padding-left: 16px; color: #6b7280; }
img { max-width: 100%; }
.columns { display: flex; gap: 24px; }
.column { flex: 1; }
details { border: 1px solid #e5e7eb; border-radius: 6px; padding: 8px 12px; margin: 0.5em 0; }
summary { font-weight: 600; cursor: pointer; }
hr { border: none; border-top: 1px solid #e5e7eb; margin: 1.5em 0; }
@media print { body { padding: 0; } details { break-inside: avoid; } }
</style>
</head>
<body>
{{ if .Title }}<h1 class="doc-title">{{ .Title }}</h1>{{ end }}
{{ .Body }}
</body>
</html>`))

// ToPrintHTML сериализует документ в самодостаточную HTML-страницу
// со встроенными стилями для печати и экспорта.
func ToPrintHTML(title string, doc *tiptap.Document) string {
	var sb strings.Builder
	err := printTemplate.Execute(&sb, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(ToHTML(doc)),
	})
	if err != nil {
		slog.Warn("Error execute print template", "err", err)
		return ToHTML(doc)
	}

	minified, err := minifier.String("text/html", sb.String())
	if err != nil {
		slog.Warn("Error minify print page", "err", err)
		return sb.String()
	}
	return minified
}
