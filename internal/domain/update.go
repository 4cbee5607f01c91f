package domain

import "time"

// FieldUpdate is one column assignment of a partial update.
// The set of implementations is closed: only the types in this file satisfy it.
type FieldUpdate interface {
	field() string
}

type SetWord struct{ Value string }

type SetMeaning struct{ Value string }

// SetPartOfSpeech clears the column when Value is nil.
type SetPartOfSpeech struct{ Value *string }

// SetExample clears the column when Value is nil.
type SetExample struct{ Value *string }

type SetTags struct{ Value []string }

type SetFamiliarity struct{ Value int }

// SetReviewDue clears the column when Value is nil.
type SetReviewDue struct{ Value *time.Time }

func (SetWord) field() string         { return "word" }
func (SetMeaning) field() string      { return "meaning" }
func (SetPartOfSpeech) field() string { return "part_of_speech" }
func (SetExample) field() string      { return "example" }
func (SetTags) field() string         { return "tags" }
func (SetFamiliarity) field() string  { return "familiarity" }
func (SetReviewDue) field() string    { return "review_due" }

// FieldName returns the JSON/column name an update assigns
func FieldName(u FieldUpdate) string {
	return u.field()
}
