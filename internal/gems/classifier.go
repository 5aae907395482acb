package gems

// Track discriminates the two independent reward streams.
type Track string

const (
	// TrackMastery is the progression-gated learning reward stream.
	TrackMastery Track = "mastery"
	// TrackActivity is the always-granted engagement reward stream.
	TrackActivity Track = "activity"
)

// IsValid reports whether t is a known track.
func (t Track) IsValid() bool {
	return t == TrackMastery || t == TrackActivity
}

// PerformanceContext carries everything the classifier needs to know about a
// single practice event. It is built fresh per attempt and never persisted.
type PerformanceContext struct {
	ResponseTimeMs int
	StreakCount    int
	HintUsed       bool
	TypingMode     bool
	DictationMode  bool

	// MasteryLevel is the learner's current level for the word, when known.
	MasteryLevel *int

	// MaxGemRarity caps the computed Mastery rarity when set. Empty means
	// no cap.
	MaxGemRarity GemRarity

	// IsFirstTime marks the word's first ever correct encounter for this
	// learner; it forces NewDiscovery on the Mastery track.
	IsFirstTime bool
}

// Classify maps a practice event to a gem rarity on the given track.
func Classify(gameType string, ctx PerformanceContext, track Track) GemRarity {
	if track == TrackActivity {
		return ClassifyActivity(gameType, ctx)
	}
	return ClassifyMastery(gameType, ctx)
}

// ClassifyMastery computes the Mastery-track rarity for one practice event.
//
// Discovery takes priority over every other signal: the first ever correct
// encounter is always NewDiscovery, even when a hint was used and even under a
// MaxGemRarity cap (NewDiscovery is the lowest tier, so no cap can reduce it).
// A hint on any later encounter forfeits the speed and streak bonuses and the
// mode upgrades, leaving Common, still subject to the cap.
func ClassifyMastery(gameType string, ctx PerformanceContext) GemRarity {
	if ctx.IsFirstTime {
		return NewDiscovery
	}

	if ctx.HintUsed {
		return Common.CapAt(ctx.MaxGemRarity)
	}

	cfg := ConfigForGame(gameType)
	rarity := Common

	// Speed bonus.
	switch {
	case ctx.ResponseTimeMs <= cfg.FastThresholdMs:
		rarity = Rare
	case ctx.ResponseTimeMs <= cfg.NormalThresholdMs:
		rarity = Uncommon
	}

	// Streak bonus overrides speed when it yields a higher tier.
	switch {
	case ctx.StreakCount >= cfg.LegendaryStreak:
		rarity = Legendary
	case ctx.StreakCount >= cfg.EpicStreak:
		if rarity.Less(Epic) {
			rarity = Epic
		}
	}

	rarity = applyModeBonuses(cfg, ctx, rarity)

	return rarity.CapAt(ctx.MaxGemRarity)
}

// ClassifyActivity computes the Activity-track rarity for one practice event.
// The Activity track has no discovery or hint branching and no mastery cap.
// Mode upgrades never push an activity gem above Rare.
func ClassifyActivity(gameType string, ctx PerformanceContext) GemRarity {
	cfg := ConfigForGame(gameType)
	rarity := Common

	switch {
	case ctx.StreakCount >= 5:
		rarity = Rare
	case ctx.ResponseTimeMs <= cfg.FastThresholdMs:
		rarity = Rare
	case ctx.ResponseTimeMs <= cfg.NormalThresholdMs && ctx.StreakCount >= 2:
		rarity = Uncommon
	}

	return applyModeBonuses(cfg, ctx, rarity).CapAt(Rare)
}

// applyModeBonuses upgrades the rarity one tier per applicable input-mode
// bonus, typing before dictation. Two simultaneous bonuses upgrade twice,
// saturating at Legendary.
func applyModeBonuses(cfg GameTypeConfig, ctx PerformanceContext, rarity GemRarity) GemRarity {
	if cfg.TypingBonus && ctx.TypingMode {
		rarity = rarity.Upgrade()
	}
	if cfg.DictationBonus && ctx.DictationMode {
		rarity = rarity.Upgrade()
	}
	return rarity
}
