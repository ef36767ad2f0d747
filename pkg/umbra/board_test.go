package umbra

import "testing"

// identityBoard places the standard zones in definition order, so position
// groups and adjacency are predictable: (hut,gate) (sanctum,grave)
// (forest,altar) around a ring.
func identityBoard() *Board {
	return NewBoard([]int{0, 1, 2, 3, 4, 5})
}

func TestBoardRingAdjacency(t *testing.T) {
	b := identityBoard()

	if len(b.Zones) != ZoneCount {
		t.Fatalf("expected %d zones, got %d", ZoneCount, len(b.Zones))
	}
	for id, neighbors := range b.Adjacency {
		if len(neighbors) != 2 {
			t.Errorf("zone %s has %d neighbors, expected 2", id, len(neighbors))
		}
		for _, n := range neighbors {
			found := false
			for _, back := range b.Adjacency[n] {
				if back == id {
					found = true
				}
			}
			if !found {
				t.Errorf("adjacency %s->%s is not symmetric", id, n)
			}
		}
	}
}

func TestBoardGroupPartnersAdjacent(t *testing.T) {
	b := identityBoard()
	for group := 0; group < 3; group++ {
		zones := b.GroupZones(group)
		if len(zones) != 2 {
			t.Fatalf("group %d has %d zones, expected 2", group, len(zones))
		}
		if b.Distance(zones[0], zones[1]) != 1 {
			t.Errorf("group %d partners %s and %s are not adjacent", group, zones[0], zones[1])
		}
	}
}

func TestDistance(t *testing.T) {
	b := identityBoard()

	tests := []struct {
		from, to ZoneID
		want     int
	}{
		{ZoneHermitsHut, ZoneHermitsHut, 0},
		{ZoneHermitsHut, ZoneRuinGate, 1},
		{ZoneHermitsHut, ZoneOldAltar, 1}, // ring wraps
		{ZoneHermitsHut, ZoneSanctum, 2},
		{ZoneHermitsHut, ZoneGraveyard, 3}, // opposite side of the ring
		{ZoneHermitsHut, "nowhere", -1},
		{"nowhere", "nowhere", -1},
	}
	for _, tt := range tests {
		if got := b.Distance(tt.from, tt.to); got != tt.want {
			t.Errorf("Distance(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
		if got := b.Distance(tt.to, tt.from); got != tt.want {
			t.Errorf("Distance(%s, %s) = %d, want %d (not symmetric)", tt.to, tt.from, got, tt.want)
		}
	}
}

func TestReachable(t *testing.T) {
	b := identityBoard()

	if got := b.Reachable(ZoneHermitsHut, 0); len(got) != 0 {
		t.Errorf("Reachable with maxDist 0 returned %d zones, expected none", len(got))
	}

	one := b.Reachable(ZoneHermitsHut, 1)
	if len(one) != 2 || !one[ZoneRuinGate] || !one[ZoneOldAltar] {
		t.Errorf("Reachable at distance 1 = %v, expected the two ring neighbors", one)
	}
	if one[ZoneHermitsHut] {
		t.Error("start zone must never be reachable from itself")
	}

	all := b.Reachable(ZoneHermitsHut, 3)
	if len(all) != ZoneCount-1 {
		t.Errorf("expected every other zone within distance 3, got %d", len(all))
	}
}

func TestZoneForRoll(t *testing.T) {
	b := identityBoard()

	tests := []struct {
		total int
		want  ZoneID
	}{
		{2, ZoneHermitsHut},
		{3, ZoneHermitsHut},
		{4, ZoneRuinGate},
		{5, ZoneRuinGate},
		{6, ZoneSanctum},
		{7, NoZone}, // free choice
		{8, ZoneGraveyard},
		{9, ZoneDuskForest},
		{10, ZoneOldAltar},
		{11, NoZone},
	}
	for _, tt := range tests {
		if got := b.ZoneForRoll(tt.total); got != tt.want {
			t.Errorf("ZoneForRoll(%d) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestSameGroup(t *testing.T) {
	b := identityBoard()

	if !b.SameGroup(ZoneHermitsHut, ZoneRuinGate) {
		t.Error("positions 0 and 1 must share a group")
	}
	if b.SameGroup(ZoneHermitsHut, ZoneSanctum) {
		t.Error("positions 0 and 2 must not share a group")
	}
	if !b.SameGroup(ZoneSanctum, ZoneSanctum) {
		t.Error("a zone shares a group with itself")
	}
	if b.SameGroup(ZoneHermitsHut, "nowhere") {
		t.Error("unknown zones share no group")
	}
}
