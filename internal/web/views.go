package web

import (
	"sync"

	"github.com/p-n-ai/syllabus-plus/internal/quiz"
)

// articleView is one rendering of an article for one visitor. It owns the
// quizzes of that rendering; a new rendering gets a new view.
type articleView struct {
	ID        string
	VisitorID string
	Subject   string
	File      string
	Lang      string
	URL       string // page address that shows this view

	quizzes *quiz.Set
	signals map[string]quiz.Signal
	mu      sync.Mutex
}

// pendingSignal returns and clears the last feedback signal of a quiz.
// The caller holds v.mu.
func (v *articleView) pendingSignal(id string) quiz.Signal {
	s := v.signals[id]
	delete(v.signals, id)
	return s
}

// viewRegistry holds live article views, evicting the oldest beyond max.
type viewRegistry struct {
	views map[string]*articleView
	order []string
	max   int
	mu    sync.Mutex
}

func newViewRegistry(max int) *viewRegistry {
	return &viewRegistry{views: make(map[string]*articleView), max: max}
}

func (r *viewRegistry) add(v *articleView) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.views[v.ID]; !ok {
		r.order = append(r.order, v.ID)
	}
	r.views[v.ID] = v
	for len(r.order) > r.max {
		delete(r.views, r.order[0])
		r.order = r.order[1:]
	}
}

func (r *viewRegistry) get(id string) (*articleView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[id]
	return v, ok
}

func (r *viewRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}
