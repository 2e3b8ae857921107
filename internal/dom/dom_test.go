package dom

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!doctype html><html><body>
<div id="chat-log" class="log"><div class="bubble">a</div><div class="bubble">b</div></div>
<div id="preview"></div>
</body></html>`

func TestDocument_Query(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	el, err := doc.Query("#preview")
	require.NoError(t, err)
	require.NotNil(t, el)
	assert.Equal(t, "div", el.Tag())

	missing, err := doc.Query("#nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := doc.QueryAll(".bubble")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[1].TextContent())
}

func TestDocument_InvalidSelector(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	_, err = doc.Query("div[")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSelector))

	_, err = doc.QueryAll("p:no-such-pseudo")
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestDocument_ByID(t *testing.T) {
	doc, err := ParseString(`<p id="1:weird">x</p>`)
	require.NoError(t, err)

	assert.NotNil(t, doc.ByID("1:weird"))
	assert.Nil(t, doc.ByID("other"))
}

func TestElement_SetInnerHTMLWritesThroughToDocument(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)
	el, err := doc.Query("#preview")
	require.NoError(t, err)

	el.SetInnerHTML("<p>hello <em>there</em></p>")

	assert.Equal(t, "<p>hello <em>there</em></p>", el.InnerHTML())
	assert.Contains(t, doc.String(), `<div id="preview"><p>hello <em>there</em></p></div>`)
}

func TestElement_TableFragmentParsesInContext(t *testing.T) {
	el := NewElement("div")
	el.SetInnerHTML("<table><thead><tr><th>a</th></tr></thead><tbody><tr><td>1</td></tr></tbody></table>")

	assert.Equal(t, "<table><thead><tr><th>a</th></tr></thead><tbody><tr><td>1</td></tr></tbody></table>", el.InnerHTML())
}

func TestElement_SetTextContent(t *testing.T) {
	el := NewElement("div")
	el.SetInnerHTML("<b>x</b>")

	el.SetTextContent("<b>literal</b>")
	assert.Equal(t, "&lt;b&gt;literal&lt;/b&gt;", el.InnerHTML())
	assert.Equal(t, "<b>literal</b>", el.TextContent())

	el.SetTextContent("")
	assert.Equal(t, "", el.InnerHTML())
}

func TestElement_Classes(t *testing.T) {
	el := NewElement("DIV")
	assert.Equal(t, "div", el.Tag())
	assert.False(t, el.HasClass("a"))

	el.AddClass("a")
	el.AddClass("b")
	el.AddClass("a")
	el.AddClass("  ")
	assert.Equal(t, []string{"a", "b"}, el.Classes())
	assert.True(t, el.HasClass("b"))

	el.RemoveClass("a")
	assert.Equal(t, []string{"b"}, el.Classes())
	assert.Equal(t, `<div class="b"></div>`, el.OuterHTML())
}

func TestElement_AttrAndAppendChild(t *testing.T) {
	log := NewElement("div")
	msg := NewElement("article")
	msg.SetAttr("id", "msg-1")
	msg.SetAttr("id", "msg-2")
	log.AppendChild(msg)

	v, ok := msg.Attr("id")
	require.True(t, ok)
	assert.Equal(t, "msg-2", v)
	assert.Equal(t, `<div><article id="msg-2"></article></div>`, log.OuterHTML())

	other := NewElement("section")
	other.AppendChild(msg)
	assert.Equal(t, "<div></div>", log.OuterHTML())
	assert.True(t, strings.Contains(other.OuterHTML(), "msg-2"))
}

func TestDocument_Render(t *testing.T) {
	doc, err := ParseString("<p>x</p>")
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, doc.Render(&b))
	assert.Equal(t, doc.String(), b.String())
}
