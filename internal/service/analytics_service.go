package service

import (
	"fmt"
	"sort"
	"time"

	"vocabgems/internal/gems"
	"vocabgems/internal/models"
)

// AnalyticsStore is the read-only storage the aggregator consumes.
type AnalyticsStore interface {
	GetStudentTrackRarityTotals(studentID string) ([]models.TrackRarityTotal, error)
	GetStudentGemEventsSince(studentID string, since time.Time) ([]models.GemEvent, error)
	GetStudentSessionStats(studentID string) (sessions, attempted, correct int, err error)
}

// AnalyticsService rolls persisted gem events and session rows up into
// per-student summaries split by reward track. Pure read side: it never
// mutates source data, and a student with no history gets an all-zero
// summary rather than an error.
type AnalyticsService struct {
	store AnalyticsStore
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// StudentSummary builds the per-student rollup across both tracks.
func (s *AnalyticsService) StudentSummary(studentID string) (*models.StudentSummary, error) {
	summary := &models.StudentSummary{
		StudentID: studentID,
		Mastery:   emptyTrackTotals(),
		Activity:  emptyTrackTotals(),
	}

	totals, err := s.store.GetStudentTrackRarityTotals(studentID)
	if err != nil {
		return nil, fmt.Errorf("load gem totals: %w", err)
	}

	for _, t := range totals {
		bucket := &summary.Activity
		if t.Track == gems.TrackMastery {
			bucket = &summary.Mastery
		}
		bucket.Gems += t.Count
		bucket.XP += t.XP
		bucket.ByRarity[t.Rarity] += t.Count
	}
	summary.TotalXP = summary.Mastery.XP + summary.Activity.XP

	sessions, attempted, correct, err := s.store.GetStudentSessionStats(studentID)
	if err != nil {
		return nil, fmt.Errorf("load session stats: %w", err)
	}
	summary.SessionsPlayed = sessions
	summary.WordsAttempted = attempted
	summary.WordsCorrect = correct
	if attempted > 0 {
		summary.AccuracyPct = float64(correct) / float64(attempted) * 100
	}

	return summary, nil
}

// DailyTotals buckets a student's gem events of the last `days` days by UTC
// calendar date and track. Bucketing is commutative over insertion order, so
// no ordering is demanded of the underlying store.
func (s *AnalyticsService) DailyTotals(studentID string, days int) ([]models.DailyTotals, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days).Truncate(24 * time.Hour)

	events, err := s.store.GetStudentGemEventsSince(studentID, since)
	if err != nil {
		return nil, fmt.Errorf("load gem events: %w", err)
	}

	type bucketKey struct {
		day   string
		track gems.Track
	}
	buckets := make(map[bucketKey]*models.DailyTotals)
	for _, ev := range events {
		key := bucketKey{
			day:   ev.CreatedAt.UTC().Format("2006-01-02"),
			track: ev.Track,
		}
		b, ok := buckets[key]
		if !ok {
			b = &models.DailyTotals{Day: key.day, Track: key.track}
			buckets[key] = b
		}
		b.Gems++
		b.XP += ev.XPValue
	}

	out := make([]models.DailyTotals, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Track < out[j].Track
	})
	return out, nil
}

func emptyTrackTotals() models.TrackTotals {
	return models.TrackTotals{ByRarity: make(map[gems.GemRarity]int)}
}
