package view

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/shht-tools/tradedesk/internal/layout"
	"github.com/shht-tools/tradedesk/internal/shared"
	"github.com/shht-tools/tradedesk/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// SidebarItem is one entry of the rendered navigation.
type SidebarItem struct {
	Name   string
	Path   string
	Icon   string
	Active bool
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Layout      layout.Snapshot
	Sidebar     []SidebarItem
	UserName    string
	LoggedIn    bool
	Data        any
}

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

var titleCaser = cases.Title(language.English)

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006")
		},
		"formatDateString": func(s string) string {
			if s == "" {
				return ""
			}
			if t, err := time.Parse("2006-01-02", s); err == nil {
				return t.Format("02 Jan 2006")
			}
			return s
		},
		"inr":      FormatINR,
		"humanize": Humanize,
		"add":      func(a, b int) int { return a + b },
		"px":       func(v int) string { return fmt.Sprintf("%dpx", v) },
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}

// FormatINR renders an amount with Indian digit grouping. Zero renders
// empty, matching how the tables leave unpriced rows blank.
func FormatINR(amount decimal.Decimal) string {
	if amount.IsZero() {
		return ""
	}
	value, _ := amount.Float64()
	return inrPrinter.Sprintf("%v", number.Decimal(value, number.MaxFractionDigits(2)))
}

// Humanize turns snake_case and CamelCase field names into display labels.
func Humanize(text string) string {
	if text == "" {
		return ""
	}
	var words []string
	for _, chunk := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '_' || r == ' '
	}) {
		start := 0
		for i := 1; i < len(chunk); i++ {
			if chunk[i] >= 'A' && chunk[i] <= 'Z' && (chunk[i-1] < 'A' || chunk[i-1] > 'Z') {
				words = append(words, chunk[start:i])
				start = i
			}
		}
		words = append(words, chunk[start:])
	}
	for i, w := range words {
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ")
}
