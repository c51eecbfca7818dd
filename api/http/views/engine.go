// Package views holds the embedded HTML templates and stylesheet.
//
// Pages are named after their path below templates/ without extension
// ("public/home"). The layout ("layouts/main") pulls the page in with
// {{embed}}, so pages hold plain markup without define blocks.
package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var files embed.FS

//go:embed static
var static embed.FS

// Static returns the embedded stylesheet tree rooted at "static".
func Static() fs.FS {
	return sub(static, "static")
}

// New returns an engine over the embedded templates.
func New() *html.Engine {
	return NewFromFS(sub(files, "templates"))
}

// NewFromFS builds an engine over any tree laid out like templates/.
func NewFromFS(fsys fs.FS) *html.Engine {
	engine := html.NewFileSystem(http.FS(fsys), ".html")
	engine.AddFuncMap(funcs())
	return engine
}

func sub(fsys fs.FS, dir string) fs.FS {
	out, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return out
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"year": func() int { return time.Now().Year() },
		"truncate": func(n int, s string) string {
			r := []rune(s)
			if len(r) <= n {
				return s
			}
			return string(r[:n]) + "…"
		},
		"nl2br": func(s string) template.HTML {
			return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
		},
	}
}
