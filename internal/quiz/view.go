package quiz

// OptionState is how an option button is drawn.
type OptionState int

const (
	OptionIdle OptionState = iota
	OptionCorrect
	OptionWrong
	OptionMuted
)

func (s OptionState) String() string {
	switch s {
	case OptionCorrect:
		return "correct"
	case OptionWrong:
		return "wrong"
	case OptionMuted:
		return "muted"
	default:
		return ""
	}
}

// NextAction is what the footer button does in the current phase.
type NextAction int

const (
	ActionSkip NextAction = iota
	ActionNext
	ActionResults
	ActionNone
)

// LabelKey returns the localization key of the footer button label.
func (a NextAction) LabelKey() string {
	switch a {
	case ActionSkip:
		return "ui_skip"
	case ActionNext:
		return "ui_next"
	case ActionResults:
		return "ui_results"
	default:
		return ""
	}
}

// OptionView is one option button in display order.
type OptionView struct {
	Index    int // index into Question.Options, submitted on answer
	Text     string
	Correct  bool
	State    OptionState
	Disabled bool
}

// View is everything needed to draw a quiz without touching its state.
type View struct {
	Phase           Phase
	Number          int // 1-based question number
	Total           int
	Score           int
	Prompt          string
	Options         []OptionView
	ProgressPercent float64
	Next            NextAction
	Result          *Result
}

// View returns the view model of the current state.
func (q *Quiz) View() View {
	total := len(q.questions)
	v := View{
		Phase:  q.phase,
		Number: q.index + 1,
		Total:  total,
		Score:  q.score,
	}

	if q.phase == Finished {
		r := NewResult(q.score, total)
		v.Result = &r
		v.Number = total
		v.ProgressPercent = 100
		v.Next = ActionNone
		return v
	}

	cur := q.questions[q.index]
	v.Prompt = cur.Prompt
	v.Options = make([]OptionView, 0, len(q.order))
	for _, idx := range q.order {
		ov := OptionView{
			Index:   idx,
			Text:    cur.Options[idx],
			Correct: idx == cur.CorrectIndex,
		}
		if q.phase == Answered {
			ov.Disabled = true
			ov.State = answeredState(idx, q.chosen, cur.CorrectIndex)
		}
		v.Options = append(v.Options, ov)
	}

	switch q.phase {
	case Presenting:
		v.ProgressPercent = 100 * float64(q.index) / float64(total)
		v.Next = ActionSkip
	case Answered:
		v.ProgressPercent = 100 * float64(q.index+1) / float64(total)
		if q.IsLast() {
			v.Next = ActionResults
		} else {
			v.Next = ActionNext
		}
	}
	return v
}

func answeredState(idx, chosen, correct int) OptionState {
	switch {
	case idx == chosen && idx == correct:
		return OptionCorrect
	case idx == chosen:
		return OptionWrong
	case idx == correct:
		return OptionCorrect
	default:
		return OptionMuted
	}
}
