package review

// Action names a button on the finished screen.
type Action string

const (
	ActionReviewToughTerms Action = "tough"
	ActionReset            Action = "reset"
	ActionBackToStudySet   Action = "back"
)

type Button struct {
	Text   string
	Action Action
}

// Result is what the finished screen shows.
type Result struct {
	Know     int
	Learning int
	First    Button
	Second   Button
}

// Result offers tough terms while anything is left in the learning bucket and
// a full reset otherwise.
func (s *Session) Result() Result {
	first := Button{Text: "Reset flashcards", Action: ActionReset}
	if len(s.learning) > 0 {
		first = Button{Text: "Review tough terms", Action: ActionReviewToughTerms}
	}
	return Result{
		Know:     len(s.known),
		Learning: len(s.learning),
		First:    first,
		Second:   Button{Text: "Back to study set", Action: ActionBackToStudySet},
	}
}
