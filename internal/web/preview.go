package web

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"
)

const (
	previewSelector  = "#preview"
	documentSelector = "#document"
)

type previewSignals struct {
	Draft string `json:"draft"`
}

// handlePreview renders the draft signal into the preview pane of the
// requesting browser.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var sig previewSignals
	if err := s.decodeJSON(w, r, &sig); err != nil {
		writeError(w, err)
		return
	}
	if len(sig.Draft) > s.cfg.MaxMessageBytes {
		writeError(w, ErrMessageTooLarge)
		return
	}

	sse := datastar.NewSSE(w, r)
	target := newSSETarget(sse, previewSelector)
	if err := s.renderer.Render(target, sig.Draft); err != nil {
		_ = sse.ExecuteScript(`console.error(` + jsString(err.Error()) + `)`)
		return
	}
	if err := target.Err(); err != nil {
		s.log.Debug("preview stream", zap.Error(err))
	}
}

// handleDocumentEvents streams the watched document and re-renders it on
// every change.
func (s *Server) handleDocumentEvents(w http.ResponseWriter, r *http.Request) {
	if s.cfg.WatchPath == "" {
		http.NotFound(w, r)
		return
	}
	ch, cancel := s.document.subscribe()
	defer cancel()

	sse := datastar.NewSSE(w, r)
	push := func() error {
		src, err := os.ReadFile(s.cfg.WatchPath)
		if err != nil {
			// Editors may briefly remove the file while saving.
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			_ = sse.ExecuteScript(`console.error(` + jsString(err.Error()) + `)`)
			return nil
		}
		target := newSSETarget(sse, documentSelector)
		if err := s.renderer.Render(target, src); err != nil {
			_ = sse.ExecuteScript(`console.error(` + jsString(err.Error()) + `)`)
			return nil
		}
		return target.Err()
	}
	if err := push(); err != nil {
		return
	}

	keepAlive := time.NewTicker(s.cfg.KeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case _, ok := <-ch:
			if !ok {
				return
			}
			if err := push(); err != nil {
				s.log.Debug("document stream closed", zap.Error(err))
				return
			}
		}
	}
}
