package format

import (
	"bytes"
	"testing"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	v := map[string]any{
		"data": map[string]any{
			"html":  `<p class="markdown-content">a & b</p>`,
			"bytes": 12,
			"ok":    true,
			"tags":  []string{"x", "y"},
			"none":  nil,
		},
	}

	tests := []struct {
		name   string
		format string
		pretty bool
		want   string
	}{
		{
			name:   "json",
			format: "json",
			want:   `{"data":{"bytes":12,"html":"<p class=\"markdown-content\">a & b</p>","none":null,"ok":true,"tags":["x","y"]}}` + "\n",
		},
		{
			name:   "edn",
			format: "edn",
			want:   `{:data {:bytes 12 :html "<p class=\"markdown-content\">a & b</p>" :none nil :ok true :tags ["x" "y"]}}` + "\n",
		},
		{
			name:   "edn pretty",
			format: "EDN",
			pretty: true,
			want: `{
  :data {
    :bytes 12
    :html "<p class=\"markdown-content\">a & b</p>"
    :none nil
    :ok true
    :tags [
      "x"
      "y"
    ]
  }
}
`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var b bytes.Buffer
			if err := Write(&b, v, tt.format, tt.pretty); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if got := b.String(); got != tt.want {
				t.Fatalf("Write(%s):\n got: %s\nwant: %s", tt.format, got, tt.want)
			}
		})
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "yaml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWriteEDN_EmptyCollections(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	if err := WriteEDN(&b, map[string]any{"a": []any{}, "b": map[string]any{}}, true); err != nil {
		t.Fatal(err)
	}
	want := "{\n  :a []\n  :b {}\n}\n"
	if b.String() != want {
		t.Fatalf("got %q want %q", b.String(), want)
	}
}
