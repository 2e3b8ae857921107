package render

import "github.com/microcosm-cc/bluemonday"

// NewPolicy returns the sanitization policy used for rendered Markdown:
// bluemonday's user-generated-content policy, plus the anchor attributes the
// link formatter emits and the table elements GFM produces.
//
// The UGC policy's rel="nofollow" rewriting is switched off so anchors keep
// exactly the rel value the link formatter chose.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("target", "rel").OnElements("a")
	p.AllowElements("table", "thead", "tbody", "tr", "th", "td")
	return p
}
