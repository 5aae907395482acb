package gems

// GameTypeConfig holds the per-game tuning used by the classifier: the expected
// response time, the speed thresholds that earn a bonus, the streak counts that
// earn Epic/Legendary, and which input-mode bonuses the game supports.
// All times are milliseconds.
type GameTypeConfig struct {
	BaselineTimeMs    int
	FastThresholdMs   int
	NormalThresholdMs int
	EpicStreak        int
	LegendaryStreak   int
	TypingBonus       bool
	DictationBonus    bool
}

// defaultGameType is the fallback key for game identifiers not in the table.
const defaultGameType = "default"

// gameConfigs is the process-wide per-game tuning table. Unknown game types
// fall back to "default"; that is normal operation, not an error.
var gameConfigs = map[string]GameTypeConfig{
	defaultGameType: {
		BaselineTimeMs:    3000,
		FastThresholdMs:   2000,
		NormalThresholdMs: 4000,
		EpicStreak:        5,
		LegendaryStreak:   10,
	},
	"vocab-master": {
		BaselineTimeMs:    3000,
		FastThresholdMs:   2000,
		NormalThresholdMs: 4000,
		EpicStreak:        5,
		LegendaryStreak:   10,
		TypingBonus:       true,
	},
	"memory-game": {
		BaselineTimeMs:    2000,
		FastThresholdMs:   1000,
		NormalThresholdMs: 2000,
		EpicStreak:        5,
		LegendaryStreak:   10,
	},
	"hangman": {
		BaselineTimeMs:    5000,
		FastThresholdMs:   3000,
		NormalThresholdMs: 6000,
		EpicStreak:        4,
		LegendaryStreak:   8,
	},
	"speed-builder": {
		BaselineTimeMs:    1500,
		FastThresholdMs:   800,
		NormalThresholdMs: 1500,
		EpicStreak:        8,
		LegendaryStreak:   15,
		TypingBonus:       true,
	},
	"dictation": {
		BaselineTimeMs:    6000,
		FastThresholdMs:   4000,
		NormalThresholdMs: 8000,
		EpicStreak:        4,
		LegendaryStreak:   8,
		DictationBonus:    true,
	},
	"word-scramble": {
		BaselineTimeMs:    4000,
		FastThresholdMs:   2500,
		NormalThresholdMs: 5000,
		EpicStreak:        5,
		LegendaryStreak:   10,
	},
	"detective-listening": {
		BaselineTimeMs:    5000,
		FastThresholdMs:   3500,
		NormalThresholdMs: 7000,
		EpicStreak:        4,
		LegendaryStreak:   8,
		DictationBonus:    true,
	},
	"sentence-builder": {
		BaselineTimeMs:    6000,
		FastThresholdMs:   4000,
		NormalThresholdMs: 8000,
		EpicStreak:        5,
		LegendaryStreak:   10,
		TypingBonus:       true,
	},
}

// ConfigForGame returns the tuning for a game type, falling back to the
// default config for unknown identifiers.
func ConfigForGame(gameType string) GameTypeConfig {
	if cfg, ok := gameConfigs[gameType]; ok {
		return cfg
	}
	return gameConfigs[defaultGameType]
}

// KnownGameTypes returns the configured game identifiers, including "default".
func KnownGameTypes() []string {
	types := make([]string, 0, len(gameConfigs))
	for k := range gameConfigs {
		types = append(types, k)
	}
	return types
}
