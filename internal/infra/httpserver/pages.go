package httpserver

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/textlens/internal/domain/analysis"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"join": strings.Join,
	"truncate": func(s string, n int) string {
		r := []rune(s)
		if len(r) <= n {
			return s
		}
		return string(r[:n])
	},
}

// pages holds one template set per page, each parsed on top of the layout.
type pages struct {
	sets map[string]*template.Template
}

func loadPages() *pages {
	layout := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html"))
	p := &pages{sets: make(map[string]*template.Template)}
	for _, name := range []string{"home", "result", "history"} {
		t := template.Must(layout.Clone())
		p.sets[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return p
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (p *pages) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.sets[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		zap.L().Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

type engineOption struct {
	Value    string
	Label    string
	Selected bool
}

type homeData struct {
	Error   string
	Text    string
	Engines []engineOption
}

type resultData struct {
	Analysis *domain.Analysis
	Engine   string
}

type historyData struct {
	Page    domain.PaginatedResult
	PrevURL string
	NextURL string
}
