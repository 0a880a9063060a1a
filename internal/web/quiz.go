package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/p-n-ai/syllabus-plus/internal/quiz"
)

// Quiz actions accepted from the client.
const (
	actionAnswer = "answer"
	actionNext   = "next"
	actionSkip   = "skip"
	actionReset  = "reset"
)

var (
	errUnknownQuiz   = errors.New("unknown quiz")
	errUnknownAction = errors.New("unknown quiz action")
)

type quizPanel struct {
	ID           string
	Action       string
	Phase        string
	ProgressText string
	Progress     string
	Prompt       template.HTML
	Options      []optionPanel
	NextLabel    string
	NextAction   string
	Result       *resultPanel
	Signal       string
}

type optionPanel struct {
	Index    int
	HTML     template.HTML
	Class    string
	Disabled bool
}

type resultPanel struct {
	Percentage int
	Tier       string
	Color      string
	Message    string
	Summary    string
	TryAgain   string
}

// quizPanel shapes the quiz for display. The caller holds v.mu.
func (s *Server) quizPanel(v *articleView, id string, text func(string) string) *quizPanel {
	q, ok := v.quizzes.Get(id)
	if !ok {
		return nil
	}
	qv := q.View()

	p := &quizPanel{
		ID:     id,
		Action: "/quiz/" + v.ID + "/" + id + "/",
		Phase:  qv.Phase.String(),
		Signal: string(v.pendingSignal(id)),
	}

	if r := qv.Result; r != nil {
		p.Result = &resultPanel{
			Percentage: r.Percentage,
			Tier:       r.Tier.String(),
			Color:      r.Tier.Color(),
			Message:    text(r.Tier.MessageKey()),
			Summary:    fmt.Sprintf("%s %d %s %d %s.", text("ui_you_got"), r.Score, text("ui_out_of"), r.Total, text("ui_correct")),
			TryAgain:   text("ui_try_again"),
		}
		return p
	}

	p.ProgressText = fmt.Sprintf("%s %d / %d", text("ui_question"), qv.Number, qv.Total)
	p.Progress = strconv.FormatFloat(qv.ProgressPercent, 'f', 2, 64)
	p.Prompt = s.deps.Renderer.Inline(qv.Prompt)
	for _, o := range qv.Options {
		p.Options = append(p.Options, optionPanel{
			Index:    o.Index,
			HTML:     s.deps.Renderer.Inline(o.Text),
			Class:    o.State.String(),
			Disabled: o.Disabled,
		})
	}

	switch qv.Next {
	case quiz.ActionSkip:
		p.NextAction = actionSkip
	case quiz.ActionNext, quiz.ActionResults:
		p.NextAction = actionNext
	}
	if p.NextAction != "" {
		p.NextLabel = text(qv.Next.LabelKey())
	}
	return p
}

// applyQuiz performs a quiz action for the visitor of v. applied is false
// when the action does not fit the quiz's current phase.
func (s *Server) applyQuiz(ctx context.Context, v *articleView, id, action string, option int) (applied bool, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	q, ok := v.quizzes.Get(id)
	if !ok {
		return false, errUnknownQuiz
	}

	index := q.Index()
	var eventType string
	switch action {
	case actionAnswer:
		applied = q.Answer(option)
		eventType = quiz.EventAnswered
	case actionNext:
		applied = q.Advance()
	case actionSkip:
		applied = q.Skip()
		eventType = quiz.EventSkipped
	case actionReset:
		applied = q.Reset()
		eventType = quiz.EventReset
	default:
		return false, errUnknownAction
	}
	if !applied {
		slog.Debug("quiz action ignored", "view", v.ID, "quiz", id, "action", action, "phase", q.Phase().String())
		return false, nil
	}

	if eventType != "" {
		data := map[string]any{"question": index}
		if action == actionAnswer {
			data["option"] = option
			data["correct"] = v.signals[id] == quiz.SignalCorrect
		}
		s.logEvent(ctx, v, id, eventType, data)
	}

	if action == actionNext || action == actionSkip {
		if res, done := q.Result(); done {
			s.recordAttempt(ctx, v, id, res)
		}
	}
	return true, nil
}

func (s *Server) recordAttempt(ctx context.Context, v *articleView, id string, res quiz.Result) {
	attemptID, err := s.deps.Attempts.RecordAttempt(ctx, quiz.NewAttempt(v.VisitorID, v.File, id, v.Lang, res))
	if err != nil {
		slog.Warn("failed to record quiz attempt", "view", v.ID, "quiz", id, "error", err)
	} else {
		slog.Info("quiz finished",
			"attempt", attemptID,
			"article", v.File,
			"quiz", id,
			"score", res.Score,
			"total", res.Total,
			"tier", res.Tier.String(),
		)
	}
	s.logEvent(ctx, v, id, quiz.EventFinished, map[string]any{
		"score":      res.Score,
		"total":      res.Total,
		"percentage": res.Percentage,
	})
}

func (s *Server) logEvent(ctx context.Context, v *articleView, id, eventType string, data map[string]any) {
	err := s.deps.Events.LogEvent(ctx, quiz.Event{
		VisitorID: v.VisitorID,
		Article:   v.File,
		SectionID: id,
		EventType: eventType,
		Data:      data,
	})
	if err != nil {
		slog.Warn("failed to log quiz event", "type", eventType, "error", err)
	}
}

// lookupView returns the view when it belongs to the requesting visitor.
func (s *Server) lookupView(r *http.Request) (*articleView, bool) {
	v, ok := s.views.get(r.PathValue("view"))
	if !ok || v.VisitorID != existingVisitor(r) {
		return nil, false
	}
	return v, true
}

func (s *Server) handleQuizAction(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookupView(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	option := -1
	if raw := r.PostFormValue("option"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid option", http.StatusBadRequest)
			return
		}
		option = n
	}

	id := r.PathValue("section")
	if _, err := s.applyQuiz(r.Context(), v, id, r.PathValue("action"), option); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Redirect(w, r, v.URL+"#"+id, http.StatusSeeOther)
}

// renderQuiz renders the quiz fragment of v in its language.
func (s *Server) renderQuiz(v *articleView, id string, text func(string) string) (string, *resultPanel, string, error) {
	v.mu.Lock()
	p := s.quizPanel(v, id, text)
	v.mu.Unlock()
	if p == nil {
		return "", nil, "", errUnknownQuiz
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "quiz", p); err != nil {
		return "", nil, "", fmt.Errorf("rendering quiz: %w", err)
	}
	return buf.String(), p.Result, p.Signal, nil
}
