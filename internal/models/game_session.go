package models

import "time"

// Session lifecycle states. A session only becomes completed when its
// completion percentage reaches 100; ending a session early leaves it
// in_progress from a curriculum standpoint.
const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
)

// GameSession is one continuous play of a game, bounded by explicit start and
// end calls. Counters are mutated additively during play.
type GameSession struct {
	ID                string
	StudentID         string
	AssignmentID      *string
	GameType          string
	GameMode          string
	Status            string
	StartedAt         time.Time
	EndedAt           *time.Time
	DurationSeconds   int
	WordsAttempted    int
	WordsCorrect      int
	FinalScore        int
	XPEarned          int
	CompletionPercent float64
}

// Accuracy returns the session's correct/attempted ratio as a percentage.
func (s *GameSession) Accuracy() float64 {
	if s.WordsAttempted == 0 {
		return 0
	}
	return float64(s.WordsCorrect) / float64(s.WordsAttempted) * 100
}
