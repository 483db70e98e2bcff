package site

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates static
var assets embed.FS

// Page templates. Each page is parsed with the shared layout and card partial.
const (
	pageHome     = "home"
	pageListings = "listings"
	pageDetail   = "detail"
	pageText     = "text"
	pageContact  = "contact"
	pageNotFound = "notfound"
)

var pages = parsePages(pageHome, pageListings, pageDetail, pageText, pageContact, pageNotFound)

func parsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.ParseFS(assets,
			"templates/layout.html.tmpl",
			"templates/card.html.tmpl",
			"templates/"+name+".html.tmpl",
		))
	}
	return out
}

// staticFiles serves the embedded stylesheet under /static/.
func staticFiles() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
