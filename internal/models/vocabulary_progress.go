package models

import "time"

// Spaced-repetition scheduling states for a vocabulary item.
const (
	ProgressStateNew      = "new"
	ProgressStateLearning = "learning"
	ProgressStateReview   = "review"
)

// VocabularyProgress is the per-student per-item spaced-repetition record.
// The Progression Gate reads it to decide Mastery-track eligibility; the
// scheduling math itself (difficulty/stability/retrievability updates) is
// owned by the external scheduler, whose values are carried opaquely here.
type VocabularyProgress struct {
	StudentID         string
	VocabularyID      string
	TotalEncounters   int
	CorrectEncounters int
	State             string
	DueAt             *time.Time
	Difficulty        float64
	Stability         float64
	Retrievability    float64
	LastEncounteredAt time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsDue reports whether the item is eligible for review at the given moment.
// A missing due timestamp means the item has never been scheduled and is
// always eligible.
func (p *VocabularyProgress) IsDue(now time.Time) bool {
	return p.DueAt == nil || !now.Before(*p.DueAt)
}
