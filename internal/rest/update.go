package rest

import (
	"encoding/json"
	"strconv"
	"time"

	"wordbook/internal/domain"
)

// updatable lists the accepted PATCH keys in the order their assignments are applied
var updatable = []string{"word", "meaning", "part_of_speech", "example", "tags", "familiarity", "review_due"}

// parseUpdates turns a PATCH body into field updates. Keys outside updatable are ignored.
func parseUpdates(body map[string]json.RawMessage) ([]domain.FieldUpdate, error) {
	var (
		updates []domain.FieldUpdate
		issues  []domain.Issue
	)

	for _, key := range updatable {
		raw, ok := body[key]
		if !ok {
			continue
		}

		u, err := parseUpdate(key, raw)
		if err != nil {
			issues = append(issues, domain.Issue{Path: key, Message: err.Error()})
			continue
		}
		updates = append(updates, u)
	}

	if len(issues) > 0 {
		return nil, &domain.ValidationError{Issues: issues}
	}
	return updates, nil
}

func parseUpdate(key string, raw json.RawMessage) (domain.FieldUpdate, error) {
	switch key {
	case "word":
		var v string
		err := json.Unmarshal(raw, &v)
		return domain.SetWord{Value: v}, err
	case "meaning":
		var v string
		err := json.Unmarshal(raw, &v)
		return domain.SetMeaning{Value: v}, err
	case "part_of_speech":
		var v *string
		err := json.Unmarshal(raw, &v)
		return domain.SetPartOfSpeech{Value: v}, err
	case "example":
		var v *string
		err := json.Unmarshal(raw, &v)
		return domain.SetExample{Value: v}, err
	case "tags":
		var v []string
		err := json.Unmarshal(raw, &v)
		return domain.SetTags{Value: v}, err
	case "familiarity":
		v, err := parseGrade(raw)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, errExpectedInteger
		}
		return domain.SetFamiliarity{Value: *v}, nil
	case "review_due":
		var v *time.Time
		err := json.Unmarshal(raw, &v)
		return domain.SetReviewDue{Value: v}, err
	}
	return nil, errUnknownField
}

type parseError string

func (e parseError) Error() string { return string(e) }

const (
	errExpectedInteger parseError = "expected an integer"
	errUnknownField    parseError = "unknown field"
)

// parseGrade accepts a JSON integer or a numeric string. null yields nil.
func parseGrade(raw json.RawMessage) (*int, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case nil:
		return nil, nil
	case float64:
		if v != float64(int(v)) {
			return nil, errExpectedInteger
		}
		n := int(v)
		return &n, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errExpectedInteger
		}
		return &n, nil
	}
	return nil, errExpectedInteger
}
