package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// WriteEDN writes v as EDN. Values go through encoding/json first, so json
// struct tags decide key names, and the result is one of map, vector, string,
// number, boolean or nil. Map keys become keywords.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	var raw bytes.Buffer
	enc := json.NewEncoder(&raw)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	dec := json.NewDecoder(&raw)
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}

	ew := ednWriter{pretty: pretty}
	ew.value(x, 0)
	ew.buf.WriteByte('\n')
	_, err := w.Write(ew.buf.Bytes())
	return err
}

type ednWriter struct {
	buf    bytes.Buffer
	pretty bool
}

func (e *ednWriter) value(v any, level int) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("nil")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		e.buf.WriteString(strconv.Quote(t))
	case json.Number:
		e.buf.WriteString(t.String())
	case []any:
		e.collection('[', ']', len(t), level, func(i int) {
			e.value(t[i], level+1)
		})
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		e.collection('{', '}', len(keys), level, func(i int) {
			e.buf.WriteString(keyword(keys[i]))
			e.buf.WriteByte(' ')
			e.value(t[keys[i]], level+1)
		})
	default:
		e.buf.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

// collection writes n elements between start and end, one per line when
// pretty.
func (e *ednWriter) collection(start, end byte, n, level int, elem func(i int)) {
	e.buf.WriteByte(start)
	if n == 0 {
		e.buf.WriteByte(end)
		return
	}
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			e.buf.WriteByte('\n')
			e.buf.WriteString(strings.Repeat("  ", level+1))
		case i > 0:
			e.buf.WriteByte(' ')
		}
		elem(i)
	}
	if e.pretty {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", level))
	}
	e.buf.WriteByte(end)
}

func keyword(s string) string {
	return ":" + strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}
