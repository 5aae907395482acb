package models

import (
	"time"

	"vocabgems/internal/gems"
)

// GemEvent is one awarded gem: the output of classifying a correct practice
// attempt (or an explicit bonus award). Immutable once written.
type GemEvent struct {
	ID              string
	SessionID       string
	StudentID       string
	Track           gems.Track
	Rarity          gems.GemRarity
	XPValue         int
	VocabularyID    *string
	WordText        string
	TranslationText string
	ResponseTimeMs  int
	StreakCount     int
	HintUsed        bool
	GameType        string
	GameMode        string
	Difficulty      string
	BonusReason     string
	CreatedAt       time.Time
}

// PerformanceLogEntry records every attempt, correct or not. It is the system
// of record for accuracy reporting, independent of reward granting.
type PerformanceLogEntry struct {
	ID             string
	SessionID      string
	StudentID      string
	VocabularyID   *string
	WordText       string
	WasCorrect     bool
	ResponseTimeMs int
	StreakCount    int
	HintUsed       bool
	CreatedAt      time.Time
}
