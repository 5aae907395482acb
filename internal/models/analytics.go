package models

import "vocabgems/internal/gems"

// TrackTotals is the gem/XP rollup for one reward track.
type TrackTotals struct {
	Gems     int                    `json:"gems"`
	XP       int                    `json:"xp"`
	ByRarity map[gems.GemRarity]int `json:"by_rarity"`
}

// StudentSummary is the per-student analytics rollup, split by track. A
// student with no history gets an all-zero summary, never an error.
type StudentSummary struct {
	StudentID      string      `json:"student_id"`
	Mastery        TrackTotals `json:"mastery"`
	Activity       TrackTotals `json:"activity"`
	SessionsPlayed int         `json:"sessions_played"`
	WordsAttempted int         `json:"words_attempted"`
	WordsCorrect   int         `json:"words_correct"`
	AccuracyPct    float64     `json:"accuracy_pct"`
	TotalXP        int         `json:"total_xp"`
}

// DailyTotals is one per-day per-track bucket of the gem rollup. Day is a
// UTC calendar date in YYYY-MM-DD form.
type DailyTotals struct {
	Day   string     `json:"day"`
	Track gems.Track `json:"track"`
	Gems  int        `json:"gems"`
	XP    int        `json:"xp"`
}

// TrackRarityTotal is one (track, rarity) bucket of a student's gem rollup as
// read back from storage.
type TrackRarityTotal struct {
	Track  gems.Track
	Rarity gems.GemRarity
	Count  int
	XP     int
}
