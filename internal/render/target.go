package render

import "reflect"

// Target is a display surface that receives rendered Markdown.
//
// Implementations are owned by the caller; the renderer only holds a target
// for the duration of a single Render call.
type Target interface {
	// SetInnerHTML replaces the target's content with already-sanitized HTML.
	SetInnerHTML(html string)
	// SetTextContent replaces the target's content with plain text.
	SetTextContent(text string)
	HasClass(name string) bool
	// AddClass adds name to the target's class list. Adding a class that is
	// already present must not duplicate it.
	AddClass(name string)
}

// absent reports whether t refers to no element at all, including typed nil
// pointers stored in a non-nil interface (e.g. a failed selector lookup).
func absent(t Target) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
