package service

import (
	"log"
	"time"

	"vocabgems/internal/models"
)

// Progression phases reported by the gate.
const (
	PhaseNew      = "new"
	PhaseLearning = "learning"
	PhaseReview   = "review"
)

// GateDecision is the Progression Gate's answer for one attempt.
type GateDecision struct {
	Allowed      bool
	Reason       string
	Phase        string
	State        string
	NextReviewAt *time.Time
}

// ProgressReader is the storage the gate consults.
type ProgressReader interface {
	GetProgress(studentID, vocabularyID string) (*models.VocabularyProgress, error)
}

// ProgressionGate decides, per vocabulary item per learner, whether a
// Mastery-track reward may be granted right now. Replaying a word that is
// scheduled for later review earns no progression reward; that is the
// anti-grinding mechanism.
type ProgressionGate struct {
	progress ProgressReader
}

// NewProgressionGate creates a new progression gate.
func NewProgressionGate(progress ProgressReader) *ProgressionGate {
	return &ProgressionGate{progress: progress}
}

// CanProgress reports Mastery-track eligibility for one student/item pair.
//
// The encounter counter is incremented by the session service before the gate
// is consulted, so a counter of exactly 1 means this very attempt is the
// item's first ever processing pass. A storage error fails open: gameplay is
// never blocked by a reward-subsystem outage.
func (g *ProgressionGate) CanProgress(studentID, vocabularyID string, now time.Time) GateDecision {
	record, err := g.progress.GetProgress(studentID, vocabularyID)
	if err != nil {
		log.Printf("[gate] progress lookup failed for student %s item %s: %v", studentID, vocabularyID, err)
		return GateDecision{Allowed: true, Reason: "lookup failed, failing open", Phase: PhaseLearning}
	}

	if record == nil {
		return GateDecision{Allowed: true, Reason: "first encounter", Phase: PhaseNew}
	}

	if record.TotalEncounters == 1 {
		return GateDecision{
			Allowed: true,
			Reason:  "first encounter",
			Phase:   PhaseNew,
			State:   record.State,
		}
	}

	phase := PhaseReview
	if record.State == models.ProgressStateNew || record.State == models.ProgressStateLearning {
		phase = PhaseLearning
	}

	if record.IsDue(now) {
		return GateDecision{
			Allowed: true,
			Reason:  "due for review",
			Phase:   phase,
			State:   record.State,
		}
	}

	return GateDecision{
		Allowed:      false,
		Reason:       "not yet due",
		Phase:        phase,
		State:        record.State,
		NextReviewAt: record.DueAt,
	}
}
