package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CHATVIEW_CONFIG", "")
	t.Chdir(t.TempDir())
}

func TestRender_Stdin(t *testing.T) {
	isolateConfig(t)

	stdout, stderr, err := runCLI(t, "[click](http://example.com) <script>alert(1)</script>", "render")
	if err != nil {
		t.Fatalf("render failed: %v\n%s", err, stderr)
	}
	got := string(stdout)
	want := `<a href="http://example.com" target="_blank" rel="noopener noreferrer">click</a>`
	if !strings.Contains(got, want) {
		t.Fatalf("expected %q in %q", want, got)
	}
	if strings.Contains(got, "script") {
		t.Fatalf("script survived: %q", got)
	}
}

func TestRender_FileWrap(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte("**bold** text"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, err := runCLI(t, "", "render", "--wrap", path)
	if err != nil {
		t.Fatalf("render failed: %v\n%s", err, stderr)
	}
	got := strings.TrimSpace(string(stdout))
	if !strings.HasPrefix(got, `<div class="markdown-content"><p><strong>bold</strong> text</p>`) {
		t.Fatalf("unexpected wrapped output: %q", got)
	}
}

func TestRender_JSONEnvelope(t *testing.T) {
	isolateConfig(t)

	stdout, stderr, err := runCLI(t, "# Hi", "render", "--json")
	if err != nil {
		t.Fatalf("render failed: %v\n%s", err, stderr)
	}
	var env struct {
		Data struct {
			Source string `json:"source"`
			HTML   string `json:"html"`
		} `json:"data"`
	}
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, stdout)
	}
	if env.Data.Source != "stdin" || strings.TrimSpace(env.Data.HTML) != "<h1>Hi</h1>" {
		t.Fatalf("unexpected envelope: %+v", env.Data)
	}

	path := filepath.Join(t.TempDir(), "greeting.md")
	if err := os.WriteFile(path, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	stdout, stderr, err = runCLI(t, "", "render", "--json", path)
	if err != nil {
		t.Fatalf("render failed: %v\n%s", err, stderr)
	}
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, stdout)
	}
	if env.Data.Source != "greeting.md" {
		t.Fatalf("expected file base name as source; got %q", env.Data.Source)
	}

	stdout, _, err = runCLI(t, "# Hi", "--format", "edn", "render", "--json")
	if err != nil {
		t.Fatalf("edn render failed: %v", err)
	}
	if !strings.HasPrefix(string(stdout), `{:data {`) {
		t.Fatalf("expected edn map; got %q", stdout)
	}
}

func TestRender_MissingFile(t *testing.T) {
	isolateConfig(t)

	_, stderr, err := runCLI(t, "", "render", filepath.Join(t.TempDir(), "nope.md"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(string(stderr), "nope.md") {
		t.Fatalf("expected error on stderr; got %q", stderr)
	}
}

func TestRender_ConfigFileApplies(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "chatview.toml")
	if err := os.WriteFile(path, []byte("[render]\nmarker_class = \"md\"\nhard_wraps = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, err := runCLI(t, "one\ntwo", "--config", path, "render", "--wrap")
	if err != nil {
		t.Fatalf("render failed: %v\n%s", err, stderr)
	}
	got := string(stdout)
	if !strings.Contains(got, `class="md"`) || strings.Contains(got, "<br") {
		t.Fatalf("config not applied: %q", got)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	isolateConfig(t)
	t.Setenv("CHATVIEW_LOG_FORMAT", "xml")

	if _, _, err := runCLI(t, "x", "render"); err == nil {
		t.Fatalf("expected invalid config to fail")
	}
	// config init still works so the file can be regenerated.
	stdout, _, err := runCLI(t, "", "config", "init", "--stdout")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(string(stdout), "[render]") {
		t.Fatalf("unexpected config: %s", stdout)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	if _, stderr, err := runCLI(t, "", "config", "init", "--path", path); err != nil {
		t.Fatalf("config init failed: %v\n%s", err, stderr)
	}
	if _, _, err := runCLI(t, "", "config", "init", "--path", path); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if _, _, err := runCLI(t, "", "config", "init", "--path", path, "--force"); err != nil {
		t.Fatalf("config init --force failed: %v", err)
	}

	stdout, stderr, err := runCLI(t, "", "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v\n%s", err, stderr)
	}
	var env map[string]map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, stdout)
	}
	if env["data"]["http_addr"] != "127.0.0.1:3340" {
		t.Fatalf("unexpected http_addr: %v", env["data"]["http_addr"])
	}
}

func TestPreview_Width(t *testing.T) {
	isolateConfig(t)
	t.Setenv("NO_COLOR", "1")

	stdout, stderr, err := runCLI(t, "# Title\n\nhello", "preview", "--width", "40")
	if err != nil {
		t.Fatalf("preview failed: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(stdout), "Title") || !strings.Contains(string(stdout), "hello") {
		t.Fatalf("unexpected preview: %q", stdout)
	}
}

func TestDocs(t *testing.T) {
	isolateConfig(t)

	stdout, _, err := runCLI(t, "", "docs")
	if err != nil {
		t.Fatalf("docs failed: %v", err)
	}
	if !strings.Contains(string(stdout), "safety") {
		t.Fatalf("expected topic list; got %s", stdout)
	}

	stdout, _, err = runCLI(t, "", "docs", "safety", "--raw")
	if err != nil {
		t.Fatalf("docs safety failed: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "# Rendering safety") {
		t.Fatalf("unexpected raw docs: %q", stdout)
	}

	if _, _, err := runCLI(t, "", "docs", "nope"); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}

func TestPublish_WritesPages(t *testing.T) {
	isolateConfig(t)
	src := filepath.Join(t.TempDir(), "guide.md")
	if err := os.WriteFile(src, []byte("# Guide\n\n[site](https://example.com)"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "site")

	stdout, stderr, err := runCLI(t, "", "publish", "--to", out, src)
	if err != nil {
		t.Fatalf("publish failed: %v\n%s", err, stderr)
	}
	var env struct {
		Data struct {
			Written []string `json:"written"`
		} `json:"data"`
	}
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if len(env.Data.Written) != 2 {
		t.Fatalf("expected index and one page; got %v", env.Data.Written)
	}
	page, err := os.ReadFile(filepath.Join(out, "guide.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), `target="_blank"`) {
		t.Fatalf("unexpected page: %s", page)
	}

	if _, _, err := runCLI(t, "", "publish", "--to", out, src); err == nil {
		t.Fatalf("expected second publish without --overwrite to fail")
	}
	if _, _, err := runCLI(t, "", "publish", src); err == nil {
		t.Fatalf("expected missing --to to fail")
	}
}

func TestToken_RequiresSecretFile(t *testing.T) {
	isolateConfig(t)

	_, stderr, err := runCLI(t, "", "token", "--author", "bot")
	if err == nil {
		t.Fatalf("expected error without web.secret_file")
	}
	if !strings.Contains(string(stderr), "web.secret_file") {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func TestToken_Mints(t *testing.T) {
	isolateConfig(t)
	secretPath := filepath.Join(t.TempDir(), "secret.key")
	t.Setenv("CHATVIEW_WEB_SECRET_FILE", secretPath)

	stdout, stderr, err := runCLI(t, "", "token", "--author", "bot", "--ttl", "1h")
	if err != nil {
		t.Fatalf("token failed: %v\n%s", err, stderr)
	}
	var env struct {
		Data struct {
			Author string `json:"author"`
			Token  string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if env.Data.Author != "bot" || strings.Count(env.Data.Token, ".") != 1 {
		t.Fatalf("unexpected token output: %+v", env.Data)
	}
	if _, err := os.Stat(secretPath); err != nil {
		t.Fatalf("expected secret file to be created: %v", err)
	}
}
