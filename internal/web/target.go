package web

import (
	"encoding/json"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
)

// sseTarget is a render.Target for an element in a connected browser,
// addressed by CSS selector. Mutations become Datastar events on the stream.
//
// The browser's class list is not visible from here, so HasClass always
// reports false and AddClass relies on classList.add being idempotent.
type sseTarget struct {
	sse      *datastar.ServerSentEventGenerator
	selector string
	err      error
}

func newSSETarget(sse *datastar.ServerSentEventGenerator, selector string) *sseTarget {
	return &sseTarget{sse: sse, selector: selector}
}

func (t *sseTarget) SetInnerHTML(html string) {
	if strings.TrimSpace(html) == "" {
		// Sanitizing can leave nothing behind; an empty element patch is not
		// a valid Datastar event.
		t.SetTextContent("")
		return
	}
	t.keep(t.sse.PatchElements(html,
		datastar.WithSelector(t.selector),
		datastar.WithMode(datastar.ElementPatchModeInner),
	))
}

func (t *sseTarget) SetTextContent(text string) {
	t.keep(t.sse.ExecuteScript(
		`{const el=document.querySelector(` + jsString(t.selector) + `);if(el){el.textContent=` + jsString(text) + `}}`,
	))
}

func (t *sseTarget) HasClass(string) bool { return false }

func (t *sseTarget) AddClass(name string) {
	t.keep(t.sse.ExecuteScript(
		`document.querySelector(` + jsString(t.selector) + `)?.classList.add(` + jsString(name) + `)`,
	))
}

// Err returns the first write error, typically a disconnected client.
func (t *sseTarget) Err() error { return t.err }

func (t *sseTarget) keep(err error) {
	if t.err == nil {
		t.err = err
	}
}

// jsString quotes s as a JavaScript string literal safe to embed in a
// <script> element.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
