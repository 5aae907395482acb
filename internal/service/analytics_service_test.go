package service

import (
	"errors"
	"testing"
	"time"

	"vocabgems/internal/gems"
	"vocabgems/internal/models"
)

type fakeAnalyticsStore struct {
	totals    []models.TrackRarityTotal
	totalsErr error
	events    []models.GemEvent
	eventsErr error
	sessions  int
	attempted int
	correct   int
	statsErr  error
}

func (f *fakeAnalyticsStore) GetStudentTrackRarityTotals(studentID string) ([]models.TrackRarityTotal, error) {
	return f.totals, f.totalsErr
}

func (f *fakeAnalyticsStore) GetStudentGemEventsSince(studentID string, since time.Time) ([]models.GemEvent, error) {
	return f.events, f.eventsErr
}

func (f *fakeAnalyticsStore) GetStudentSessionStats(studentID string) (int, int, int, error) {
	return f.sessions, f.attempted, f.correct, f.statsErr
}

func TestStudentSummaryEmptyHistory(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsStore{})

	summary, err := svc.StudentSummary("student-1")
	if err != nil {
		t.Fatalf("StudentSummary: %v", err)
	}
	if summary.TotalXP != 0 || summary.Mastery.Gems != 0 || summary.Activity.Gems != 0 {
		t.Errorf("expected an all-zero summary, got %+v", summary)
	}
	if summary.AccuracyPct != 0 {
		t.Errorf("accuracy = %v, want 0 with no attempts", summary.AccuracyPct)
	}
	if summary.Mastery.ByRarity == nil || summary.Activity.ByRarity == nil {
		t.Error("rarity maps must be initialized even when empty")
	}
}

func TestStudentSummarySplitsTracks(t *testing.T) {
	store := &fakeAnalyticsStore{
		totals: []models.TrackRarityTotal{
			{Track: gems.TrackMastery, Rarity: gems.Rare, Count: 2, XP: 100},
			{Track: gems.TrackMastery, Rarity: gems.Common, Count: 5, XP: 50},
			{Track: gems.TrackActivity, Rarity: gems.Rare, Count: 3, XP: 15},
		},
		sessions:  4,
		attempted: 40,
		correct:   30,
	}
	svc := NewAnalyticsService(store)

	summary, err := svc.StudentSummary("student-1")
	if err != nil {
		t.Fatalf("StudentSummary: %v", err)
	}
	if summary.Mastery.Gems != 7 || summary.Mastery.XP != 150 {
		t.Errorf("mastery totals = %d gems / %d xp, want 7 / 150", summary.Mastery.Gems, summary.Mastery.XP)
	}
	if summary.Activity.Gems != 3 || summary.Activity.XP != 15 {
		t.Errorf("activity totals = %d gems / %d xp, want 3 / 15", summary.Activity.Gems, summary.Activity.XP)
	}
	if summary.Mastery.ByRarity[gems.Rare] != 2 || summary.Mastery.ByRarity[gems.Common] != 5 {
		t.Errorf("mastery rarity buckets = %v", summary.Mastery.ByRarity)
	}
	if summary.TotalXP != 165 {
		t.Errorf("total xp = %d, want 165", summary.TotalXP)
	}
	if summary.SessionsPlayed != 4 {
		t.Errorf("sessions = %d, want 4", summary.SessionsPlayed)
	}
	if summary.AccuracyPct != 75 {
		t.Errorf("accuracy = %v, want 75", summary.AccuracyPct)
	}
}

func TestStudentSummaryPropagatesStoreErrors(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsStore{totalsErr: errors.New("connection reset")})

	if _, err := svc.StudentSummary("student-1"); err == nil {
		t.Fatal("expected the storage error to surface")
	}
}

func TestDailyTotalsBucketsByUTCDayAndTrack(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 11, 0, 15, 0, 0, time.UTC)
	store := &fakeAnalyticsStore{
		events: []models.GemEvent{
			{Track: gems.TrackActivity, XPValue: 2, CreatedAt: day1},
			{Track: gems.TrackActivity, XPValue: 3, CreatedAt: day1},
			{Track: gems.TrackMastery, XPValue: 25, CreatedAt: day1},
			// Half an hour later, but a different UTC calendar day.
			{Track: gems.TrackActivity, XPValue: 5, CreatedAt: day2},
		},
	}
	svc := NewAnalyticsService(store)

	got, err := svc.DailyTotals("student-1", 7)
	if err != nil {
		t.Fatalf("DailyTotals: %v", err)
	}

	want := []models.DailyTotals{
		{Day: "2026-03-10", Track: gems.TrackActivity, Gems: 2, XP: 5},
		{Day: "2026-03-10", Track: gems.TrackMastery, Gems: 1, XP: 25},
		{Day: "2026-03-11", Track: gems.TrackActivity, Gems: 1, XP: 5},
	}
	if len(got) != len(want) {
		t.Fatalf("buckets = %d, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDailyTotalsEmptyWindow(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsStore{})

	got, err := svc.DailyTotals("student-1", 0)
	if err != nil {
		t.Fatalf("DailyTotals: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("buckets = %+v, want empty", got)
	}
}
