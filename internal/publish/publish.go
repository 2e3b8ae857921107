// Package publish writes Markdown files out as standalone sanitized HTML
// pages.
package publish

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"chatview/internal/render"
)

type WriteOptions struct {
	Overwrite bool
	// Title is used for the index page. Defaults to the output directory name.
	Title string
}

type WriteResult struct {
	Written []string `json:"written"`
}

type pageVM struct {
	Title       string
	MarkerClass string
	Body        template.HTML
}

type indexVM struct {
	Title string
	Pages []indexEntry
}

type indexEntry struct {
	Href  string
	Title string
}

var (
	pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<main class="{{.MarkerClass}}">
{{.Body}}</main>
</body>
</html>
`))
	indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<ul>
{{range .Pages}}<li><a href="{{.Href}}">{{.Title}}</a></li>
{{end}}</ul>
</body>
</html>
`))
)

// WriteFiles renders each Markdown file in paths to toDir/<name>.html and
// writes an index.html linking them. It stops at the first error.
func WriteFiles(r *render.Renderer, paths []string, toDir string, opt WriteOptions) (WriteResult, error) {
	if r == nil {
		return WriteResult{}, errors.New("publish: missing renderer")
	}
	if len(paths) == 0 {
		return WriteResult{}, errors.New("publish: no input files")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	var written []string
	var entries []indexEntry
	seen := map[string]string{}
	for _, p := range paths {
		name := pageName(p)
		key := strings.ToLower(name)
		if prev, dup := seen[key]; dup {
			return WriteResult{}, fmt.Errorf("publish: %s and %s both map to %s.html", prev, p, name)
		}
		seen[key] = p

		src, err := os.ReadFile(p)
		if err != nil {
			return WriteResult{}, err
		}
		body, err := r.HTML(string(src))
		if err != nil {
			return WriteResult{}, fmt.Errorf("publish: %s: %w", p, err)
		}
		title := r.Title(string(src))
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}

		var buf bytes.Buffer
		if err := pageTmpl.Execute(&buf, pageVM{
			Title:       title,
			MarkerClass: r.MarkerClass(),
			// Sanitized by the renderer.
			Body: template.HTML(body),
		}); err != nil {
			return WriteResult{}, err
		}
		out := filepath.Join(toDir, name+".html")
		if err := writeFile(out, buf.Bytes(), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, out)
		entries = append(entries, indexEntry{Href: name + ".html", Title: title})
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = filepath.Base(toDir)
	}
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, indexVM{Title: title, Pages: entries}); err != nil {
		return WriteResult{}, err
	}
	indexPath := filepath.Join(toDir, indexName+".html")
	if err := writeFile(indexPath, buf.Bytes(), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: append([]string{indexPath}, written...)}, nil
}

// indexName is reserved for the generated index page.
const indexName = "index"

// pageName is the output name for path without extension. A page that would
// land on the index is renamed to index-1.
func pageName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.EqualFold(name, indexName) {
		return name + "-1"
	}
	return name
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
