package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/pai-tube/internal/view"
)

// serverMessage is pushed to the browser after every state change.
type serverMessage struct {
	HTML     string `json:"html,omitempty"`
	Copy     string `json:"copy,omitempty"`
	Download string `json:"download,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(r.URL.Query().Get("session"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	opts := &websocket.AcceptOptions{}
	if len(s.allowedOrigins) > 0 {
		opts.OriginPatterns = originPatterns(s.allowedOrigins)
	}
	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		s.logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	updates := sess.subscribe()
	defer sess.unsubscribe(updates)

	render := func() serverMessage {
		return serverMessage{HTML: RenderHTML(sess.Ctrl.Render())}
	}

	if err := wsjson.Write(ctx, conn, render()); err != nil {
		return
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-updates:
				if err := wsjson.Write(ctx, conn, render()); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	for {
		var a view.Action
		if err := wsjson.Read(ctx, conn, &a); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				s.logger.Debug("websocket closed", "session", sess.ID, "error", err)
			}
			return
		}

		if a.Kind == view.ActionAnalyze || a.Kind == view.ActionQuiz {
			go s.runAsync(sess, a)
			continue
		}

		out, err := sess.Ctrl.Dispatch(ctx, a)
		msg := render()
		if err != nil {
			msg.Error = err.Error()
		}
		msg.Copy = out.Copied
		msg.Download = s.publishDownload(sess, out)
		if err := wsjson.Write(ctx, conn, msg); err != nil {
			return
		}
	}
}

// runAsync runs a backend-bound action on the server context. The
// controller's change callback pushes the loading and final states.
func (s *Server) runAsync(sess *Session, a view.Action) {
	if _, err := sess.Ctrl.Dispatch(s.baseCtx, a); err != nil {
		s.logger.Debug("action rejected", "session", sess.ID, "action", a.Kind, "error", err)
	}
}

// originPatterns strips schemes, since websocket origin patterns match hosts.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if host, ok := strings.CutPrefix(o, "https://"); ok {
			o = host
		} else if host, ok := strings.CutPrefix(o, "http://"); ok {
			o = host
		}
		out = append(out, o)
	}
	return out
}
