// Package quiz implements the quiz widget embedded in articles: question
// progression, option shuffling, scoring and the results readout.
//
// A Quiz moves through three phases:
//
//	Presenting(i) --Answer--> Answered(i) --Advance--> Presenting(i+1) | Finished
//	Presenting(i) --Skip----> Presenting(i+1) | Finished
//	Finished      --Reset---> Presenting(0)
//
// Calls that do not apply to the current phase are ignored and report false.
package quiz

import (
	"errors"
	"math/rand/v2"
)

// ErrNoQuestions is returned by Start when there is nothing to ask.
var ErrNoQuestions = errors.New("quiz has no questions")

// Question is one multiple-choice question. It is never mutated by a Quiz;
// shuffling only changes the order options are displayed in.
type Question struct {
	Prompt       string
	Options      []string
	CorrectIndex int
}

// Valid reports whether the question has at least two options and a correct
// index that points into them.
func (q Question) Valid() bool {
	return len(q.Options) >= 2 && q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options)
}

// Phase is the state of a quiz.
type Phase int

const (
	Presenting Phase = iota
	Answered
	Finished
)

func (p Phase) String() string {
	switch p {
	case Presenting:
		return "presenting"
	case Answered:
		return "answered"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Signal is emitted for the audio/feedback layer.
type Signal string

const (
	SignalCorrect Signal = "correct"
	SignalWrong   Signal = "wrong"
	SignalWin     Signal = "win"
	SignalLose    Signal = "lose"
)

// Option configures a Quiz.
type Option func(*Quiz)

// WithRand sets the source used to shuffle option order.
func WithRand(r *rand.Rand) Option {
	return func(q *Quiz) {
		q.rng = r
	}
}

// WithShuffle enables or disables option shuffling. Shuffling is on by default.
func WithShuffle(enabled bool) Option {
	return func(q *Quiz) {
		q.shuffle = enabled
	}
}

// WithNotify registers a callback for feedback signals.
func WithNotify(fn func(Signal)) Option {
	return func(q *Quiz) {
		q.notify = fn
	}
}

// Quiz is the state of one rendered quiz section. It is not safe for
// concurrent use; the owner serializes access.
type Quiz struct {
	questions []Question
	index     int
	score     int
	phase     Phase
	chosen    int   // option picked in the Answered phase, -1 otherwise
	order     []int // display order of the current question's options

	shuffle bool
	rng     *rand.Rand
	notify  func(Signal)
}

// Start creates a quiz presenting its first question.
func Start(questions []Question, opts ...Option) (*Quiz, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	q := &Quiz{
		questions: append([]Question(nil), questions...),
		shuffle:   true,
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.rng == nil {
		q.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	q.present(0)
	return q, nil
}

// Phase returns the current phase.
func (q *Quiz) Phase() Phase { return q.phase }

// Index returns the zero-based index of the current question.
func (q *Quiz) Index() int { return q.index }

// Score returns the number of correct answers so far.
func (q *Quiz) Score() int { return q.score }

// Total returns the number of questions.
func (q *Quiz) Total() int { return len(q.questions) }

// Current returns the question being shown. It is only meaningful outside
// the Finished phase.
func (q *Quiz) Current() Question {
	if q.index >= len(q.questions) {
		return Question{}
	}
	return q.questions[q.index]
}

// Order returns the display order of the current question's options as
// indexes into Question.Options.
func (q *Quiz) Order() []int {
	return append([]int(nil), q.order...)
}

// Answer records the choice of option (an index into the current question's
// Options). It applies only while Presenting.
func (q *Quiz) Answer(option int) bool {
	if q.phase != Presenting {
		return false
	}
	cur := q.questions[q.index]
	if option < 0 || option >= len(cur.Options) {
		return false
	}

	q.chosen = option
	q.phase = Answered
	if option == cur.CorrectIndex {
		q.score++
		q.emit(SignalCorrect)
	} else {
		q.emit(SignalWrong)
	}
	return true
}

// Advance moves from Answered to the next question, or to Finished after
// the last one.
func (q *Quiz) Advance() bool {
	if q.phase != Answered {
		return false
	}
	q.next()
	return true
}

// Skip moves past the current question without answering it.
func (q *Quiz) Skip() bool {
	if q.phase != Presenting {
		return false
	}
	q.next()
	return true
}

// Reset restarts a finished quiz from the first question.
func (q *Quiz) Reset() bool {
	if q.phase != Finished {
		return false
	}
	q.score = 0
	q.present(0)
	return true
}

// Result returns the final score. ok is false until the quiz is Finished.
func (q *Quiz) Result() (Result, bool) {
	if q.phase != Finished {
		return Result{}, false
	}
	return NewResult(q.score, len(q.questions)), true
}

// IsLast reports whether the current question is the final one.
func (q *Quiz) IsLast() bool {
	return q.index+1 == len(q.questions)
}

func (q *Quiz) next() {
	if q.index+1 < len(q.questions) {
		q.present(q.index + 1)
		return
	}
	q.finish()
}

func (q *Quiz) present(index int) {
	q.index = index
	q.phase = Presenting
	q.chosen = -1
	q.order = Permutation(len(q.questions[index].Options), q.shuffleSource())
}

func (q *Quiz) finish() {
	q.phase = Finished
	q.chosen = -1
	q.order = nil
	if NewResult(q.score, len(q.questions)).Percentage >= midThreshold {
		q.emit(SignalWin)
	} else {
		q.emit(SignalLose)
	}
}

func (q *Quiz) shuffleSource() *rand.Rand {
	if !q.shuffle {
		return nil
	}
	return q.rng
}

func (q *Quiz) emit(s Signal) {
	if q.notify != nil {
		q.notify(s)
	}
}

// Permutation returns a display order for n options. A nil source yields the
// identity order.
func Permutation(n int, r *rand.Rand) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if r != nil {
		r.Shuffle(n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	return order
}
