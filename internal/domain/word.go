package domain

import "time"

// Word is a vocabulary record
type Word struct {
	ID           string     `json:"id"`
	UserID       *string    `json:"user_id"`
	Word         string     `json:"word"`
	Meaning      string     `json:"meaning"`
	PartOfSpeech *string    `json:"part_of_speech"`
	Example      *string    `json:"example"`
	Tags         []string   `json:"tags"`
	Familiarity  int        `json:"familiarity"`
	ReviewDue    *time.Time `json:"review_due"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewWord holds the fields accepted when creating a record
type NewWord struct {
	ID           string
	UserID       *string
	Word         string
	Meaning      string
	PartOfSpeech *string
	Example      *string
	Tags         []string
}

// SearchQuery filters and bounds a list request
type SearchQuery struct {
	Query string
	Limit int
}

// Review holds the result of grading a record
type Review struct {
	Familiarity int
	Due         time.Time
}
