package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chatview/internal/dom"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// wsIn is a client request.
type wsIn struct {
	Type     string `json:"type"` // message|preview
	Author   string `json:"author,omitempty"`
	Markdown string `json:"markdown"`
}

// wsOut carries rendered HTML for the element matched by Target.
type wsOut struct {
	Type   string `json:"type"` // html|error
	Target string `json:"target,omitempty"`
	Mode   string `json:"mode,omitempty"` // inner|append
	HTML   string `json:"html,omitempty"`
	ID     string `json:"id,omitempty"`
	Error  string `json:"error,omitempty"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		host := strings.TrimSpace(r.Host)
		return strings.HasSuffix(origin, "://"+host)
	},
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes so a client sees every
	// message published after Dial returns.
	ch, unsubscribe := s.messages.subscribe()
	defer unsubscribe()

	// Connections without a valid token may still preview and watch.
	author, authErr := s.postingAuthor(r, "")

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.log.Debug("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(int64(s.cfg.MaxMessageBytes + envelopeBytes))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Replies from the read pump and broadcasts share one writer.
	out := make(chan wsOut, 16)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- s.wsWritePump(ctx, conn, out, ch)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- s.wsReadPump(ctx, conn, out, wsAuthor{name: author, err: authErr})
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, context.Canceled) {
			s.log.Debug("websocket closed", zap.Error(err))
		}
	}
	cancel()
	// Unblock the read pump.
	_ = conn.SetReadDeadline(time.Now())
	wg.Wait()
}

// wsAuthor is the identity established at upgrade time.
type wsAuthor struct {
	name string
	err  error
}

func (s *Server) wsReadPump(ctx context.Context, conn *websocket.Conn, out chan<- wsOut, who wsAuthor) error {
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		var in wsIn
		if err := conn.ReadJSON(&in); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				if !send(ctx, out, wsOut{Type: "error", Error: "invalid json"}) {
					return ctx.Err()
				}
				continue
			}
			return err
		}
		reply, ok := s.handleWSIn(in, who)
		if !ok {
			continue
		}
		if !send(ctx, out, reply) {
			return ctx.Err()
		}
	}
}

// handleWSIn answers one request. Messages are broadcast to every subscriber
// (including this connection) and produce no direct reply.
func (s *Server) handleWSIn(in wsIn, who wsAuthor) (wsOut, bool) {
	switch strings.ToLower(strings.TrimSpace(in.Type)) {
	case "message":
		if who.err != nil {
			return wsOut{Type: "error", Error: who.err.Error()}, true
		}
		author := in.Author
		if len(s.cfg.Secret) > 0 {
			author = who.name
		}
		msg, err := s.buildMessage(author, in.Markdown)
		if err != nil {
			return wsOut{Type: "error", Error: err.Error()}, true
		}
		s.messages.publish(msg)
		return wsOut{}, false
	case "preview":
		if len(in.Markdown) > s.cfg.MaxMessageBytes {
			return wsOut{Type: "error", Error: ErrMessageTooLarge.Error()}, true
		}
		pane := dom.NewElement("div")
		if err := s.renderer.Render(pane, in.Markdown); err != nil {
			return wsOut{Type: "error", Error: err.Error()}, true
		}
		return wsOut{Type: "html", Target: previewSelector, Mode: "inner", HTML: pane.InnerHTML()}, true
	default:
		return wsOut{Type: "error", Error: "unknown type " + jsString(in.Type)}, true
	}
}

func (s *Server) wsWritePump(ctx context.Context, conn *websocket.Conn, out <-chan wsOut, msgs <-chan chatMessage) error {
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	write := func(v wsOut) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(v)
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return ctx.Err()
		case v := <-out:
			if err := write(v); err != nil {
				return err
			}
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := write(wsOut{Type: "html", Target: chatLogSelector, Mode: "append", HTML: msg.HTML, ID: msg.ID}); err != nil {
				return err
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func send(ctx context.Context, out chan<- wsOut, v wsOut) bool {
	select {
	case out <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
