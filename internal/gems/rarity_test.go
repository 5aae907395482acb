package gems

import "testing"

func TestRarityOrder(t *testing.T) {
	ordered := AllRarities()
	for i := 1; i < len(ordered); i++ {
		if !ordered[i-1].Less(ordered[i]) {
			t.Errorf("expected %s < %s", ordered[i-1], ordered[i])
		}
		if ordered[i].Less(ordered[i-1]) {
			t.Errorf("did not expect %s < %s", ordered[i], ordered[i-1])
		}
	}
}

func TestRarityUpgrade(t *testing.T) {
	tests := []struct {
		name     string
		in       GemRarity
		expected GemRarity
	}{
		{"new discovery upgrades to common", NewDiscovery, Common},
		{"common upgrades to uncommon", Common, Uncommon},
		{"uncommon upgrades to rare", Uncommon, Rare},
		{"rare upgrades to epic", Rare, Epic},
		{"epic upgrades to legendary", Epic, Legendary},
		{"legendary saturates", Legendary, Legendary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Upgrade(); got != tt.expected {
				t.Errorf("Upgrade() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRarityCapAt(t *testing.T) {
	tests := []struct {
		name     string
		in       GemRarity
		cap      GemRarity
		expected GemRarity
	}{
		{"cap below reduces", Legendary, Rare, Rare},
		{"cap above is a no-op", Uncommon, Epic, Uncommon},
		{"cap equal is a no-op", Rare, Rare, Rare},
		{"empty cap is a no-op", Legendary, "", Legendary},
		{"invalid cap is a no-op", Epic, "mythic", Epic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.CapAt(tt.cap); got != tt.expected {
				t.Errorf("CapAt(%v) = %v, want %v", tt.cap, got, tt.expected)
			}
		})
	}
}

// CapAt must behave as min(r, cap) for every pair of valid rarities.
func TestRarityCapAtIsMin(t *testing.T) {
	for _, r := range AllRarities() {
		for _, cap := range AllRarities() {
			got := r.CapAt(cap)
			want := r
			if cap.Less(r) {
				want = cap
			}
			if got != want {
				t.Errorf("%s.CapAt(%s) = %s, want %s", r, cap, got, want)
			}
		}
	}
}

func TestRarityIsValid(t *testing.T) {
	for _, r := range AllRarities() {
		if !r.IsValid() {
			t.Errorf("expected %s to be valid", r)
		}
	}
	if GemRarity("mythic").IsValid() {
		t.Error("expected unknown rarity to be invalid")
	}
	if GemRarity("").IsValid() {
		t.Error("expected empty rarity to be invalid")
	}
}
