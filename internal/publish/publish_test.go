package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chatview/internal/render"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestWriteFiles(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	a := writeTemp(t, src, "intro.md", "# Hello <b>there</b>\n\nSee [docs](https://example.com).\n<script>alert(1)</script>")
	b := writeTemp(t, src, "notes.markdown", "no heading here")
	out := filepath.Join(t.TempDir(), "site")

	res, err := WriteFiles(render.New(), []string{a, b}, out, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	want := []string{
		filepath.Join(out, "index.html"),
		filepath.Join(out, "intro.html"),
		filepath.Join(out, "notes.html"),
	}
	if strings.Join(res.Written, ",") != strings.Join(want, ",") {
		t.Fatalf("written:\n got: %v\nwant: %v", res.Written, want)
	}

	page, err := os.ReadFile(filepath.Join(out, "intro.html"))
	if err != nil {
		t.Fatal(err)
	}
	got := string(page)
	if !strings.Contains(got, `<main class="markdown-content">`) {
		t.Fatalf("expected marker class on main: %s", got)
	}
	if !strings.Contains(got, `target="_blank" rel="noopener noreferrer"`) {
		t.Fatalf("expected safe link: %s", got)
	}
	if strings.Contains(got, "alert(1)") {
		t.Fatalf("script survived: %s", got)
	}
	// Raw HTML in the heading does not reach the title.
	if !strings.Contains(got, "<title>Hello there</title>") {
		t.Fatalf("unexpected title: %s", got)
	}

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), `<a href="notes.html">notes</a>`) {
		t.Fatalf("expected fallback title in index: %s", index)
	}
	if !strings.Contains(string(index), "<h1>site</h1>") {
		t.Fatalf("expected directory name as index title: %s", index)
	}
}

func TestWriteFiles_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	a := writeTemp(t, src, "a.md", "a")
	out := t.TempDir()

	if _, err := WriteFiles(render.New(), []string{a}, out, WriteOptions{}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := WriteFiles(render.New(), []string{a}, out, WriteOptions{}); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if _, err := WriteFiles(render.New(), []string{a}, out, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestWriteFiles_Errors(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	a := writeTemp(t, src, "a.md", "a")
	sub := filepath.Join(src, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	a2 := writeTemp(t, sub, "a.md", "again")

	cases := map[string]func() error{
		"no files": func() error {
			_, err := WriteFiles(render.New(), nil, t.TempDir(), WriteOptions{})
			return err
		},
		"no dir": func() error {
			_, err := WriteFiles(render.New(), []string{a}, " ", WriteOptions{})
			return err
		},
		"nil renderer": func() error {
			_, err := WriteFiles(nil, []string{a}, t.TempDir(), WriteOptions{})
			return err
		},
		"name clash": func() error {
			_, err := WriteFiles(render.New(), []string{a, a2}, t.TempDir(), WriteOptions{})
			return err
		},
		"missing input": func() error {
			_, err := WriteFiles(render.New(), []string{filepath.Join(src, "nope.md")}, t.TempDir(), WriteOptions{})
			return err
		},
	}
	for name, fn := range cases {
		if err := fn(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestWriteFiles_IndexInputDoesNotClobberIndex(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	idx := writeTemp(t, src, "index.md", "welcome")
	out := t.TempDir()

	res, err := WriteFiles(render.New(), []string{idx}, out, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	want := []string{filepath.Join(out, "index.html"), filepath.Join(out, "index-1.html")}
	if strings.Join(res.Written, ",") != strings.Join(want, ",") {
		t.Fatalf("written:\n got: %v\nwant: %v", res.Written, want)
	}

	page, err := os.ReadFile(filepath.Join(out, "index-1.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), "<p>welcome</p>") {
		t.Fatalf("page body missing: %s", page)
	}
	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), `<a href="index-1.html">index</a>`) {
		t.Fatalf("index does not link the page: %s", index)
	}
}

func TestWriteFiles_TitleFromFirstHeading(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	tag := writeTemp(t, src, "tag.md", "#hashtag only\ntext")
	fenced := writeTemp(t, src, "fenced.md", "```sh\n# install\n```\n# Real")
	out := t.TempDir()

	if _, err := WriteFiles(render.New(), []string{tag, fenced}, out, WriteOptions{}); err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	cases := map[string]string{
		"tag.html":    "<title>tag</title>",
		"fenced.html": "<title>Real</title>",
	}
	for file, want := range cases {
		b, err := os.ReadFile(filepath.Join(out, file))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(b), want) {
			t.Fatalf("%s: expected %q in %s", file, want, b)
		}
	}
}
