package views

import (
	"net/url"

	"github.com/andrewpaige1/nodebook-web/review"
)

type Score struct {
	Know     int
	Learning int
}

type CardView struct {
	Term       string
	Definition string
	// Number is the 1-based position shown as "Number / Length".
	Number int
	Length int
}

type ResultButton struct {
	Text   string
	Href   string
	Action string
	Icon   string
}

type ResultView struct {
	Know     int
	Learning int
	First    ResultButton
	Second   ResultButton
}

// FlashcardsPage is the review screen: score and current card while
// reviewing, the result block once finished.
type FlashcardsPage struct {
	Title     string
	SetHref   string
	ActionURL string
	Score     Score
	Progress  int
	Card      *CardView
	CanPrev   bool
	Result    *ResultView
}

// FlashcardsActionURL is where the review screen posts its buttons.
func FlashcardsActionURL(setID, sessionID string) string {
	return studySetHref(setID) + "/flashcards/" + url.PathEscape(sessionID)
}

func resultIcon(action review.Action) string {
	switch action {
	case review.ActionReviewToughTerms:
		return "academic-cap"
	case review.ActionReset:
		return "arrow-path"
	}
	return "arrow-uturn-left"
}

func NewFlashcardsPage(title, setID, sessionID string, s *review.Session) FlashcardsPage {
	page := FlashcardsPage{
		Title:     title,
		SetHref:   studySetHref(setID),
		ActionURL: FlashcardsActionURL(setID, sessionID),
		Score:     Score{Know: s.KnowCount(), Learning: s.LearningCount()},
		Progress:  s.Progress(),
		CanPrev:   s.Index() > 0,
	}

	if card, ok := s.Current(); ok {
		page.Card = &CardView{
			Term:       card.Term,
			Definition: card.Definition,
			Number:     s.Index() + 1,
			Length:     s.Len(),
		}
		return page
	}

	result := s.Result()
	button := func(b review.Button) ResultButton {
		rb := ResultButton{Text: b.Text, Action: string(b.Action), Icon: resultIcon(b.Action)}
		if b.Action == review.ActionBackToStudySet {
			rb.Href = page.SetHref
		}
		return rb
	}
	page.Result = &ResultView{
		Know:     result.Know,
		Learning: result.Learning,
		First:    button(result.First),
		Second:   button(result.Second),
	}
	return page
}
