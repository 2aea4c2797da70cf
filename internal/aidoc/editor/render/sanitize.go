package render

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy *bluemonday.Policy = bluemonday.UGCPolicy()

func init() {
	htmlPolicy.AllowAttrs("class").Matching(regexp.MustCompile(`^(columns|column|accordion|accordion-content|language-[a-zA-Z0-9+#-]+)$`)).Globally()
	htmlPolicy.AllowAttrs("data-type").Matching(regexp.MustCompile(`^taskList$`)).OnElements("ul")
	htmlPolicy.AllowElements("input", "details", "summary")
	htmlPolicy.AllowAttrs("type", "checked", "disabled").OnElements("input")
	htmlPolicy.AllowAttrs("open").OnElements("details")
	htmlPolicy.AllowAttrs("target").OnElements("a")
	htmlPolicy.AllowAttrs("rel").OnElements("a")
	htmlPolicy.RequireNoFollowOnLinks(false)
}

// Sanitize пропускает HTML через политику безопасности: скрипты, обработчики
// событий и неизвестные атрибуты вырезаются.
func Sanitize(html string) string {
	return htmlPolicy.Sanitize(html)
}
