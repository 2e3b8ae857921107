package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"

	"chatview/internal/dom"
)

const (
	chatLogSelector = "#chat-log"
	anonymousAuthor = "anonymous"
)

var (
	ErrMessageTooLarge = errors.New("web: message too large")
	ErrEmptyMessage    = errors.New("web: message is empty")
)

// chatMessage is a rendered message ready to be appended to a chat log.
type chatMessage struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	// HTML is the complete message element.
	HTML string `json:"html"`
}

type renderRequest struct {
	Markdown string `json:"markdown"`
}

type renderResponse struct {
	HTML string `json:"html"`
}

type messageRequest struct {
	Author   string `json:"author"`
	Markdown string `json:"markdown"`
}

type messageResponse struct {
	ID          string `json:"id"`
	Subscribers int    `json:"subscribers"`
}

// buildMessage renders markdown into a new message element:
//
//	<article id="msg-…" class="message"><header class="author">…</header><div class="body markdown-content">…</div></article>
func (s *Server) buildMessage(author, markdown string) (chatMessage, error) {
	if len(markdown) > s.cfg.MaxMessageBytes {
		return chatMessage{}, ErrMessageTooLarge
	}
	if strings.TrimSpace(markdown) == "" {
		return chatMessage{}, ErrEmptyMessage
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = anonymousAuthor
	}

	id := "msg-" + uuid.NewString()
	article := dom.NewElement("article")
	article.SetAttr("id", id)
	article.AddClass("message")

	header := dom.NewElement("header")
	header.AddClass("author")
	header.SetTextContent(author)

	body := dom.NewElement("div")
	body.AddClass("body")
	if err := s.renderer.Render(body, markdown); err != nil {
		return chatMessage{}, err
	}

	article.AppendChild(header)
	article.AppendChild(body)
	return chatMessage{ID: id, Author: author, HTML: article.OuterHTML()}, nil
}

// decodeJSON reads a size-limited JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.MaxMessageBytes+envelopeBytes))
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrMessageTooLarge
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, ErrMessageTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnauthorized):
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Markdown) > s.cfg.MaxMessageBytes {
		writeError(w, ErrMessageTooLarge)
		return
	}
	out, err := s.renderer.HTML(req.Markdown)
	if err != nil {
		s.log.Error("render", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{HTML: out})
}

func (s *Server) handleMessageCreate(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	author, err := s.postingAuthor(r, req.Author)
	if err != nil {
		writeError(w, err)
		return
	}
	msg, err := s.buildMessage(author, req.Markdown)
	if err != nil {
		writeError(w, err)
		return
	}
	n := s.messages.publish(msg)
	s.log.Info("message", zap.String("id", msg.ID), zap.String("author", msg.Author), zap.Int("subscribers", n))
	writeJSON(w, http.StatusAccepted, messageResponse{ID: msg.ID, Subscribers: n})
}

// handleChatEvents streams every new message to the browser, appended to the
// chat log.
func (s *Server) handleChatEvents(w http.ResponseWriter, r *http.Request) {
	ch, cancel := s.messages.subscribe()
	defer cancel()

	sse := datastar.NewSSE(w, r)
	_ = sse.MarshalAndPatchSignals(map[string]any{"connected": true})

	keepAlive := time.NewTicker(s.cfg.KeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := sse.PatchElements(msg.HTML,
				datastar.WithSelector(chatLogSelector),
				datastar.WithMode(datastar.ElementPatchModeAppend),
			); err != nil {
				s.log.Debug("chat stream closed", zap.Error(err))
				return
			}
		}
	}
}
