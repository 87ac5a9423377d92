package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"io"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines standard fields for email templates.
type EmailData struct {
	// Basic info
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	// Company info
	CompanyName string `json:"CompanyName"`
	AppName     string `json:"AppName"`

	// URLs
	SupportURL    string `json:"SupportURL"`
	StorefrontURL string `json:"StorefrontURL"`
	LibraryURL    string `json:"LibraryURL"`

	// Purchase
	OrderID   string     `json:"OrderID"`
	PaymentID string     `json:"PaymentID"`
	Items     []ItemLine `json:"Items"`
	ItemCount int        `json:"ItemCount"`

	Time   string    `json:"Time"`
	TimeAt time.Time `json:"TimeAt"`
}

// ItemLine is one purchased asset as shown in a receipt.
type ItemLine struct {
	Path  string `json:"Path"`
	Title string `json:"Title"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	if value == nil {
		return fallback
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return fallback
	}
	rv := reflect.ValueOf(value)
	if rv.IsZero() {
		return fallback
	}
	return value
}

// pluralFn picks a word by count: {{ plural .ItemCount "item is" "items are" }}.
// Counts decoded from JSON arrive as float64.
func pluralFn(n any, one, many string) string {
	switch x := n.(type) {
	case int:
		if x == 1 {
			return one
		}
	case float64:
		if x == 1 {
			return one
		}
	}
	return many
}

var funcs = map[string]any{
	"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
	"upper":      strings.ToUpper,
	"default":    defaultFn,
	"plural":     pluralFn,
}

const PurchaseReceipt = "purchase_receipt"

// Parsed templates are cached per file; the embedded set never changes.
var (
	cacheMu   sync.Mutex
	textCache = map[string]*texttpl.Template{}
	htmlCache = map[string]*htmpl.Template{}
)

type executor interface {
	Execute(w io.Writer, data any) error
}

func lookup(filename string, isHTML bool) (executor, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if isHTML {
		if t, ok := htmlCache[filename]; ok {
			return t, nil
		}
		t, err := htmpl.New(filename).Funcs(htmpl.FuncMap(funcs)).ParseFS(FS, filename)
		if err != nil {
			return nil, fmt.Errorf("parse html %q: %w", filename, err)
		}
		htmlCache[filename] = t
		return t, nil
	}
	if t, ok := textCache[filename]; ok {
		return t, nil
	}
	t, err := texttpl.New(filename).Funcs(texttpl.FuncMap(funcs)).ParseFS(FS, filename)
	if err != nil {
		return nil, fmt.Errorf("parse text %q: %w", filename, err)
	}
	textCache[filename] = t
	return t, nil
}

func renderFile(filename string, isHTML bool, data any) (string, error) {
	tpl, err := lookup(filename, isHTML)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render produces subject, text and html for the given base name from
// <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (subject string, text string, html string, err error) {
	subject, err = renderFile(name+".subject.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = renderFile(name+".text.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
