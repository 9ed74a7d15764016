// Package review holds the flashcard review state machine: cards are sorted
// into "know" and "learning" buckets while a cursor walks the working
// sequence, and tough terms can be requeued once the pass is finished.
package review

// Card is a term/definition pair under review.
type Card struct {
	ID         string
	Term       string
	Definition string
}

type State int

const (
	Reviewing State = iota
	Finished
)

func (s State) String() string {
	if s == Finished {
		return "finished"
	}
	return "reviewing"
}

// Session is the progress of one review pass. It is not safe for concurrent
// use; Store serializes access.
type Session struct {
	original []Card
	cards    []Card
	known    []Card
	learning []Card
	cursor   int
}

// New starts a review over a copy of cards.
func New(cards []Card) *Session {
	original := append([]Card(nil), cards...)
	return &Session{
		original: original,
		cards:    append([]Card(nil), original...),
	}
}

// Advance moves the cursor by delta, clamped to [0, Len()].
func (s *Session) Advance(delta int) {
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor > len(s.cards) {
		s.cursor = len(s.cards)
	}
}

// Current returns the card under the cursor.
func (s *Session) Current() (Card, bool) {
	if s.cursor < 0 || s.cursor >= len(s.cards) {
		return Card{}, false
	}
	return s.cards[s.cursor], true
}

// MarkKnown adds the current card to the know bucket. It reports false when
// there is no current card.
func (s *Session) MarkKnown() bool {
	card, ok := s.Current()
	if !ok {
		return false
	}
	s.known = append(s.known, card)
	return true
}

// MarkLearning adds the current card to the learning bucket. It reports false
// when there is no current card.
func (s *Session) MarkLearning() bool {
	card, ok := s.Current()
	if !ok {
		return false
	}
	s.learning = append(s.learning, card)
	return true
}

// Know marks the current card known and moves on.
func (s *Session) Know() bool {
	if !s.MarkKnown() {
		return false
	}
	s.Advance(1)
	return true
}

// StillLearning marks the current card for another pass and moves on.
func (s *Session) StillLearning() bool {
	if !s.MarkLearning() {
		return false
	}
	s.Advance(1)
	return true
}

// ReviewToughTerms restarts the pass over the learning bucket. It only applies
// once the pass is finished and something is still being learned.
func (s *Session) ReviewToughTerms() bool {
	if !s.Finished() || len(s.learning) == 0 {
		return false
	}
	s.cards = s.learning
	s.learning = nil
	s.cursor = 0
	return true
}

// Reset goes back to the full set with empty buckets.
func (s *Session) Reset() {
	s.cards = append([]Card(nil), s.original...)
	s.known = nil
	s.learning = nil
	s.cursor = 0
}

func (s *Session) Finished() bool {
	return s.cursor == len(s.cards)
}

func (s *Session) State() State {
	if s.Finished() {
		return Finished
	}
	return Reviewing
}

// Index is the cursor position in the working sequence.
func (s *Session) Index() int {
	return s.cursor
}

// Len is the length of the working sequence.
func (s *Session) Len() int {
	return len(s.cards)
}

func (s *Session) Cards() []Card {
	return append([]Card(nil), s.cards...)
}

func (s *Session) Known() []Card {
	return append([]Card(nil), s.known...)
}

func (s *Session) Learning() []Card {
	return append([]Card(nil), s.learning...)
}

func (s *Session) KnowCount() int {
	return len(s.known)
}

func (s *Session) LearningCount() int {
	return len(s.learning)
}

// Progress is the share of the working sequence already passed, 0-100.
func (s *Session) Progress() int {
	if len(s.cards) == 0 {
		return 100
	}
	return s.cursor * 100 / len(s.cards)
}
