package gems

// GemTypeInfo describes a rarity tier: its display metadata and the XP it is
// worth on each reward track. The table is immutable for the process lifetime.
type GemTypeInfo struct {
	Name         string
	Description  string
	MasteryXP    int
	ActivityXP   int
	MasteryLevel int // 0-5
}

// gemTypes is the process-wide taxonomy table. Activity XP is deliberately a
// fraction of Mastery XP for every tier: the Activity track rewards engagement
// on every correct answer, so its ceiling has to stay low.
var gemTypes = map[GemRarity]GemTypeInfo{
	NewDiscovery: {
		Name:         "New Discovery",
		Description:  "First ever correct encounter with a word",
		MasteryXP:    5,
		ActivityXP:   2,
		MasteryLevel: 0,
	},
	Common: {
		Name:         "Common",
		Description:  "A correct answer",
		MasteryXP:    10,
		ActivityXP:   2,
		MasteryLevel: 1,
	},
	Uncommon: {
		Name:         "Uncommon",
		Description:  "A solid, reasonably quick answer",
		MasteryXP:    25,
		ActivityXP:   3,
		MasteryLevel: 2,
	},
	Rare: {
		Name:         "Rare",
		Description:  "A fast answer or a short streak",
		MasteryXP:    50,
		ActivityXP:   5,
		MasteryLevel: 3,
	},
	Epic: {
		Name:         "Epic",
		Description:  "A long streak of correct answers",
		MasteryXP:    100,
		ActivityXP:   10,
		MasteryLevel: 4,
	},
	Legendary: {
		Name:         "Legendary",
		Description:  "An exceptional streak of correct answers",
		MasteryXP:    200,
		ActivityXP:   20,
		MasteryLevel: 5,
	},
}

// TypeInfo returns the taxonomy entry for a rarity. The enum is closed, so a
// lookup cannot miss for a valid rarity; invalid input returns the Common entry.
func TypeInfo(r GemRarity) GemTypeInfo {
	if info, ok := gemTypes[r]; ok {
		return info
	}
	return gemTypes[Common]
}

// MasteryXP returns the Mastery-track XP value of a rarity.
func MasteryXP(r GemRarity) int {
	return TypeInfo(r).MasteryXP
}

// ActivityXP returns the Activity-track XP value of a rarity.
func ActivityXP(r GemRarity) int {
	return TypeInfo(r).ActivityXP
}

// XPForTrack returns the XP value of a rarity on the given track.
func XPForTrack(r GemRarity, track Track) int {
	if track == TrackActivity {
		return ActivityXP(r)
	}
	return MasteryXP(r)
}
