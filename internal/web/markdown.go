package web

import (
	"html/template"

	"go.uber.org/zap"
)

// markdownHTML renders src for embedding in a page template. The renderer's
// output is already sanitized; on failure the source is shown escaped.
func (s *Server) markdownHTML(src string) template.HTML {
	out, err := s.renderer.HTML(src)
	if err != nil {
		s.log.Warn("render markdown for page", zap.Error(err))
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(out)
}
