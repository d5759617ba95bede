// Package markup превращает текст раздела в HTML: сначала экранирование,
// потом **жирный** и переводы строк.
package markup

import (
	"html/template"
	"regexp"
	"strings"
)

var bold = regexp.MustCompile(`\*\*(.+?)\*\*`)

func Render(text string) template.HTML {
	s := template.HTMLEscapeString(text)
	s = bold.ReplaceAllString(s, "<strong>$1</strong>")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "<br>")
	return template.HTML(s)
}
