// Генерация справочника кодов ошибок API в формате Markdown.
// Разбирает файл с определениями ошибок и создает Markdown-документ с таблицей,
// содержащей коды ошибок, HTTP-коды, сообщения и переводы на русский язык.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"strconv"

	md "github.com/nao1215/markdown"
)

func main() {
	errorsFile := flag.String("src", "internal/aidoc/apierrors/apierrors.go", "Path of apierrors.go")
	outputMd := flag.String("out", "api_errors.md", "Path to output md")
	flag.Parse()

	slog.Info("Generate api errors docs", "src", *errorsFile, "out", *outputMd)

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, *errorsFile, nil, 0)
	if err != nil {
		slog.Error("Parse errors file", "err", err)
		os.Exit(1)
	}

	ff, err := os.Create(*outputMd)
	if err != nil {
		slog.Error("Create output file", "err", err)
		os.Exit(1)
	}
	defer ff.Close()

	if err := md.NewMarkdown(ff).
		H1("Перечень кодов ошибок").
		PlainText("Данный раздел посвящен описанию возможных ошибок от сервера.").
		CustomTable(md.TableSet{
			Header: []string{"Код", "HTTP код", "Сообщение", "Сообщение на русском"},
			Rows:   getRows(f),
		}, md.TableOptions{
			AutoWrapText: false,
		}).Build(); err != nil {
		slog.Error("Generate docs fail", "err", err)
	} else {
		slog.Info("Docs generated")
	}
}

// getRows собирает строки таблицы из определений ошибок в AST файла.
func getRows(f *ast.File) [][]string {
	var rows [][]string
	for _, d := range f.Decls {
		decl, ok := d.(*ast.GenDecl)
		if !ok {
			continue
		}
		for _, spec := range decl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok || len(valueSpec.Values) == 0 {
				continue
			}
			definedError, ok := valueSpec.Values[0].(*ast.CompositeLit)
			if !ok {
				continue
			}

			row := make([]string, 4)
			for _, v := range definedError.Elts {
				param, ok := v.(*ast.KeyValueExpr)
				if !ok {
					continue
				}
				switch fmt.Sprint(param.Key) {
				case "Code":
					row[0] = md.Bold(literalText(param.Value))
				case "StatusCode":
					if sel, ok := param.Value.(*ast.SelectorExpr); ok {
						row[1] = fmt.Sprintf("%d %s", statusCodes[sel.Sel.Name], md.Italic(sel.Sel.Name))
					}
				case "Err":
					row[2] = md.Code(literalText(param.Value))
				case "RuErr":
					row[3] = md.Code(literalText(param.Value))
				}
			}
			if row[0] == "" {
				continue
			}
			if row[1] == "" {
				row[1] = fmt.Sprintf("%d %s", statusCodes["StatusBadRequest"], md.Italic("StatusBadRequest"))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// literalText возвращает текст строкового или числового литерала без кавычек.
func literalText(expr ast.Expr) string {
	lit, ok := expr.(*ast.BasicLit)
	if !ok {
		return ""
	}
	if lit.Kind == token.STRING {
		if s, err := strconv.Unquote(lit.Value); err == nil {
			return s
		}
	}
	return lit.Value
}

// statusCodes сопоставляет имена констант net/http их числовым кодам.
var statusCodes = map[string]int{
	"StatusOK":                  200,
	"StatusCreated":             201,
	"StatusNoContent":           204,
	"StatusBadRequest":          400,
	"StatusUnauthorized":        401,
	"StatusForbidden":           403,
	"StatusNotFound":            404,
	"StatusConflict":            409,
	"StatusUnprocessableEntity": 422,
	"StatusTooManyRequests":     429,
	"StatusInternalServerError": 500,
	"StatusNotImplemented":      501,
	"StatusServiceUnavailable":  503,
}
