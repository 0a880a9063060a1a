package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/syllabus-plus/internal/quiz"
)

// counterInterval is the frame spacing of the results counter.
const counterInterval = 50 * time.Millisecond

// quizCommand is a client request on the quiz socket. A missing option
// decodes as -1, which no question accepts.
type quizCommand struct {
	Section string `json:"section"`
	Action  string `json:"action"`
	Option  int    `json:"option"`
}

// quizFrame is a server message on the quiz socket. State frames carry the
// re-rendered quiz; counter frames carry the animated results percentage.
type quizFrame struct {
	Type    string `json:"type"`
	Section string `json:"section"`
	HTML    string `json:"html,omitempty"`
	Signal  string `json:"signal,omitempty"`
	Value   int    `json:"value"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleQuizSocket(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookupView(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("quiz socket accept failed", "view", v.ID, "error", err)
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	text := s.table(ctx).Bound(v.Lang)
	slog.Debug("quiz socket opened", "view", v.ID)

	for {
		cmd := quizCommand{Option: -1}
		if err := wsjson.Read(ctx, c, &cmd); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !errors.Is(err, ctx.Err()) {
				slog.Debug("quiz socket read failed", "view", v.ID, "error", err)
			}
			return
		}

		applied, err := s.applyQuiz(ctx, v, cmd.Section, cmd.Action, cmd.Option)
		if err != nil {
			if err := wsjson.Write(ctx, c, quizFrame{Type: "error", Section: cmd.Section, Error: err.Error()}); err != nil {
				return
			}
			continue
		}

		html, result, signal, err := s.renderQuiz(v, cmd.Section, text)
		if err != nil {
			slog.Error("quiz render failed", "view", v.ID, "error", err)
			return
		}
		if err := wsjson.Write(ctx, c, quizFrame{Type: "state", Section: cmd.Section, HTML: html, Signal: signal}); err != nil {
			return
		}

		if applied && result != nil && cmd.Action != actionReset {
			counter := quiz.NewCounter(result.Percentage)
			err := counter.Play(ctx, counterInterval, func(f quiz.Frame) error {
				return wsjson.Write(ctx, c, quizFrame{Type: "counter", Section: cmd.Section, Value: f.Value})
			})
			if err != nil {
				return
			}
		}
	}
}
