package gems

import "testing"

func TestClassifyMastery(t *testing.T) {
	tests := []struct {
		name     string
		gameType string
		ctx      PerformanceContext
		expected GemRarity
	}{
		{
			name:     "fast answer earns rare",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 1500},
			expected: Rare,
		},
		{
			name:     "hint forfeits the speed bonus",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 1500, HintUsed: true},
			expected: Common,
		},
		{
			name:     "hint forfeits the streak bonus too",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 500, StreakCount: 20, HintUsed: true},
			expected: Common,
		},
		{
			name:     "legendary streak overrides slow answer",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 5000, StreakCount: 10},
			expected: Legendary,
		},
		{
			name:     "epic streak overrides speed tier",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 1500, StreakCount: 5},
			expected: Epic,
		},
		{
			name:     "streak below epic keeps speed tier",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 1500, StreakCount: 4},
			expected: Rare,
		},
		{
			name:     "normal speed earns uncommon",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 3000},
			expected: Uncommon,
		},
		{
			name:     "slow answer stays common",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 9000},
			expected: Common,
		},
		{
			name:     "per-game thresholds: memory-game normal speed",
			gameType: "memory-game",
			ctx:      PerformanceContext{ResponseTimeMs: 1500},
			expected: Uncommon,
		},
		{
			name:     "first time is always new discovery",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 9000, IsFirstTime: true},
			expected: NewDiscovery,
		},
		{
			name:     "first time beats hint",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 1500, HintUsed: true, IsFirstTime: true},
			expected: NewDiscovery,
		},
		{
			name:     "first time beats a low cap",
			gameType: "vocab-master",
			ctx:      PerformanceContext{IsFirstTime: true, MaxGemRarity: NewDiscovery},
			expected: NewDiscovery,
		},
		{
			name:     "cap limits computed rarity",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 1500, StreakCount: 10, MaxGemRarity: Uncommon},
			expected: Uncommon,
		},
		{
			name:     "cap above computed rarity is a no-op",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 1500, MaxGemRarity: Legendary},
			expected: Rare,
		},
		{
			name:     "typing bonus upgrades one tier",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 1500, TypingMode: true},
			expected: Epic,
		},
		{
			name:     "typing mode without game support is ignored",
			gameType: "memory-game",
			ctx:      PerformanceContext{ResponseTimeMs: 900, TypingMode: true},
			expected: Rare,
		},
		{
			name:     "unknown game uses default thresholds",
			gameType: "some-brand-new-game",
			ctx:      PerformanceContext{ResponseTimeMs: 1500},
			expected: Rare,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyMastery(tt.gameType, tt.ctx); got != tt.expected {
				t.Errorf("ClassifyMastery(%q, %+v) = %v, want %v", tt.gameType, tt.ctx, got, tt.expected)
			}
		})
	}
}

// Double mode bonus: dictation games that also support typing upgrade twice.
func TestClassifyMasteryDoubleModeBonus(t *testing.T) {
	ctx := PerformanceContext{ResponseTimeMs: 9000, TypingMode: true, DictationMode: true}
	cfg := GameTypeConfig{FastThresholdMs: 2000, NormalThresholdMs: 4000, EpicStreak: 5, LegendaryStreak: 10, TypingBonus: true, DictationBonus: true}

	got := applyModeBonuses(cfg, ctx, Common)
	if got != Rare {
		t.Errorf("double mode bonus from common = %v, want %v", got, Rare)
	}

	// Saturates at legendary.
	got = applyModeBonuses(cfg, ctx, Epic)
	if got != Legendary {
		t.Errorf("double mode bonus from epic = %v, want %v", got, Legendary)
	}
}

// The computed Mastery rarity never exceeds the cap, for every cap and every
// non-discovery context.
func TestClassifyMasteryRespectsCap(t *testing.T) {
	contexts := []PerformanceContext{
		{ResponseTimeMs: 500},
		{ResponseTimeMs: 500, StreakCount: 12},
		{ResponseTimeMs: 3000, StreakCount: 6},
		{ResponseTimeMs: 9000, HintUsed: true},
		{ResponseTimeMs: 1500, TypingMode: true},
	}
	for _, cap := range AllRarities() {
		for _, ctx := range contexts {
			uncapped := ClassifyMastery("vocab-master", ctx)
			ctx.MaxGemRarity = cap
			got := ClassifyMastery("vocab-master", ctx)
			want := uncapped.CapAt(cap)
			if got != want {
				t.Errorf("cap %s, ctx %+v: got %s, want min(%s, %s) = %s", cap, ctx, got, uncapped, cap, want)
			}
			if cap.Less(got) {
				t.Errorf("cap %s, ctx %+v: rarity %s exceeds cap", cap, ctx, got)
			}
		}
	}
}

func TestClassifyActivity(t *testing.T) {
	tests := []struct {
		name     string
		gameType string
		ctx      PerformanceContext
		expected GemRarity
	}{
		{
			name:     "streak of five earns rare",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 9000, StreakCount: 5},
			expected: Rare,
		},
		{
			name:     "fast answer earns rare",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 1500},
			expected: Rare,
		},
		{
			name:     "normal speed with short streak earns uncommon",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 3000, StreakCount: 2},
			expected: Uncommon,
		},
		{
			name:     "normal speed without streak stays common",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 3000},
			expected: Common,
		},
		{
			name:     "memory-game: 1500ms misses its fast threshold",
			gameType: "memory-game",
			ctx:      PerformanceContext{ResponseTimeMs: 1500},
			expected: Common,
		},
		{
			name:     "no discovery branch on the activity track",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 9000, IsFirstTime: true},
			expected: Common,
		},
		{
			name:     "no hint branch on the activity track",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 1500, HintUsed: true},
			expected: Rare,
		},
		{
			name:     "typing bonus upgrades",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 3000, TypingMode: true},
			expected: Uncommon,
		},
		{
			name:     "activity gems never exceed rare",
			gameType: "vocab-master",
			ctx:      PerformanceContext{ResponseTimeMs: 1500, StreakCount: 8, TypingMode: true},
			expected: Rare,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyActivity(tt.gameType, tt.ctx); got != tt.expected {
				t.Errorf("ClassifyActivity(%q, %+v) = %v, want %v", tt.gameType, tt.ctx, got, tt.expected)
			}
		})
	}
}

// The same input can legitimately classify differently per track; thresholds
// are per-game and the activity rules are stricter about speed.
func TestTracksDivergeOnMemoryGame(t *testing.T) {
	ctx := PerformanceContext{ResponseTimeMs: 1500}
	if got := ClassifyActivity("memory-game", ctx); got != Common {
		t.Errorf("activity rarity = %v, want %v", got, Common)
	}
	if got := ClassifyMastery("memory-game", ctx); got != Uncommon {
		t.Errorf("mastery rarity = %v, want %v", got, Uncommon)
	}
}
