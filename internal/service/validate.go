package service

import (
	"wordbook/internal/domain"

	"github.com/google/uuid"
)

const (
	DefaultTake = 200
	MaxTake     = 500
)

// CreateWordInput holds the client-supplied fields of a new record
type CreateWordInput struct {
	Word         string
	Meaning      string
	PartOfSpeech *string
	Example      *string
	Tags         []string
	UserID       *string
}

// ValidateCreate checks a create request and returns the record to insert (without ID)
func ValidateCreate(in CreateWordInput) (domain.NewWord, error) {
	var issues []domain.Issue

	if in.Word == "" {
		issues = append(issues, domain.Issue{Path: "word", Message: "required"})
	}
	if in.Meaning == "" {
		issues = append(issues, domain.Issue{Path: "meaning", Message: "required"})
	}
	if in.UserID != nil {
		if _, err := uuid.Parse(*in.UserID); err != nil {
			issues = append(issues, domain.Issue{Path: "user_id", Message: "invalid uuid"})
		}
	}

	if len(issues) > 0 {
		return domain.NewWord{}, &domain.ValidationError{Issues: issues}
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	return domain.NewWord{
		UserID:       in.UserID,
		Word:         in.Word,
		Meaning:      in.Meaning,
		PartOfSpeech: in.PartOfSpeech,
		Example:      in.Example,
		Tags:         tags,
	}, nil
}

// ValidateUpdates checks a partial update. An empty set is rejected.
func ValidateUpdates(updates []domain.FieldUpdate) error {
	if len(updates) == 0 {
		return domain.NewValidationError("", "no fields to update")
	}

	var issues []domain.Issue
	for _, u := range updates {
		switch u := u.(type) {
		case domain.SetWord:
			if u.Value == "" {
				issues = append(issues, domain.Issue{Path: "word", Message: "must not be empty"})
			}
		case domain.SetMeaning:
			if u.Value == "" {
				issues = append(issues, domain.Issue{Path: "meaning", Message: "must not be empty"})
			}
		case domain.SetFamiliarity:
			if u.Value < domain.MinGrade || u.Value > domain.MaxGrade {
				issues = append(issues, domain.Issue{Path: "familiarity", Message: "must be between 0 and 5"})
			}
		}
	}

	if len(issues) > 0 {
		return &domain.ValidationError{Issues: issues}
	}
	return nil
}

// NormalizeTake applies the list default and upper bound
func NormalizeTake(take int) int {
	if take < 1 {
		return DefaultTake
	}
	if take > MaxTake {
		return MaxTake
	}
	return take
}

// validID reports whether id can identify a record at all
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
