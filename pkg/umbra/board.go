package umbra

// ZoneCount is the number of zones on the standard board.
const ZoneCount = 6

// ZoneID identifies a zone on the board.
type ZoneID string

// Standard zone IDs.
const (
	ZoneHermitsHut ZoneID = "hut"
	ZoneRuinGate   ZoneID = "gate"
	ZoneSanctum    ZoneID = "sanctum"
	ZoneGraveyard  ZoneID = "grave"
	ZoneDuskForest ZoneID = "forest"
	ZoneOldAltar   ZoneID = "altar"
)

// NoZone is the zero zone, used before initial placement.
const NoZone ZoneID = ""

// Zone is a single board location. Zones are static for the duration of a
// match; only their assignment to board positions is randomized at setup.
type Zone struct {
	ID       ZoneID
	Name     string
	Deck     DeckType // deck drawn from when acting here; DeckNone or DeckAny for special zones
	RollLow  int      // lowest movement dice total that lands here
	RollHigh int      // highest movement dice total that lands here
	Group    int      // zones sharing a group are mutually valid combat targets
}

// CoversRoll reports whether a movement dice total lands on this zone.
// A total of 7 never maps to a zone directly; it grants a free choice.
func (z *Zone) CoversRoll(total int) bool {
	return total >= z.RollLow && total <= z.RollHigh
}

// Board holds the zone set, the group partition, and the adjacency graph.
type Board struct {
	Zones     map[ZoneID]*Zone
	Adjacency map[ZoneID][]ZoneID
}

// zoneDefs returns the six standard zones in board-position order.
// Positions 2i and 2i+1 form group i; Setup permutes which zone sits
// on which position.
func zoneDefs() []*Zone {
	return []*Zone{
		{ID: ZoneHermitsHut, Name: "Hermit's Hut", Deck: DeckVision, RollLow: 2, RollHigh: 3},
		{ID: ZoneRuinGate, Name: "Gate of Ruin", Deck: DeckAny, RollLow: 4, RollHigh: 5},
		{ID: ZoneSanctum, Name: "Sanctum", Deck: DeckWhite, RollLow: 6, RollHigh: 6},
		{ID: ZoneGraveyard, Name: "Graveyard", Deck: DeckBlack, RollLow: 8, RollHigh: 8},
		{ID: ZoneDuskForest, Name: "Dusk Forest", Deck: DeckBlack, RollLow: 9, RollHigh: 9},
		{ID: ZoneOldAltar, Name: "Old Altar", Deck: DeckNone, RollLow: 10, RollHigh: 10},
	}
}

// NewBoard builds a board with the given zone-to-position assignment.
// order[i] is the index (into the standard zone list) of the zone placed on
// board position i. Positions 2i and 2i+1 share group i, and the six
// positions are arranged in a ring, so each zone is adjacent to exactly its
// two ring neighbors (one of which is always its group partner).
func NewBoard(order []int) *Board {
	defs := zoneDefs()
	placed := make([]*Zone, len(defs))
	for pos, zi := range order {
		z := defs[zi]
		z.Group = pos / 2
		placed[pos] = z
	}

	b := &Board{
		Zones:     make(map[ZoneID]*Zone, len(placed)),
		Adjacency: make(map[ZoneID][]ZoneID, len(placed)),
	}
	for _, z := range placed {
		b.Zones[z.ID] = z
	}

	n := len(placed)
	for pos, z := range placed {
		prev := placed[(pos+n-1)%n]
		next := placed[(pos+1)%n]
		b.Adjacency[z.ID] = append(b.Adjacency[z.ID], prev.ID, next.ID)
	}
	return b
}

// Reachable returns every zone whose graph distance from the start zone is
// in [1, maxDist]. The start zone itself is never included; maxDist <= 0
// returns an empty set.
func (b *Board) Reachable(from ZoneID, maxDist int) map[ZoneID]bool {
	result := make(map[ZoneID]bool)
	if maxDist <= 0 {
		return result
	}

	type item struct {
		id   ZoneID
		dist int
	}
	visited := map[ZoneID]bool{from: true}
	queue := []item{{from, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.dist >= maxDist {
			continue
		}
		for _, next := range b.Adjacency[cur.id] {
			if visited[next] {
				continue
			}
			visited[next] = true
			result[next] = true
			queue = append(queue, item{next, cur.dist + 1})
		}
	}
	return result
}

// Distance returns the graph distance between two zones, 0 for a zone and
// itself, or -1 if the zones are not connected.
func (b *Board) Distance(a, c ZoneID) int {
	if a == c {
		if _, ok := b.Zones[a]; !ok {
			return -1
		}
		return 0
	}

	type item struct {
		id   ZoneID
		dist int
	}
	visited := map[ZoneID]bool{a: true}
	queue := []item{{a, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range b.Adjacency[cur.id] {
			if visited[next] {
				continue
			}
			if next == c {
				return cur.dist + 1
			}
			visited[next] = true
			queue = append(queue, item{next, cur.dist + 1})
		}
	}
	return -1
}

// SameGroup reports whether two zones share a combat group.
func (b *Board) SameGroup(a, c ZoneID) bool {
	za, ok := b.Zones[a]
	if !ok {
		return false
	}
	zc, ok := b.Zones[c]
	if !ok {
		return false
	}
	return za.Group == zc.Group
}

// GroupZones returns the zone IDs belonging to the given group.
func (b *Board) GroupZones(group int) []ZoneID {
	var ids []ZoneID
	for _, z := range b.Zones {
		if z.Group == group {
			ids = append(ids, z.ID)
		}
	}
	return ids
}

// ZoneForRoll returns the zone a movement dice total lands on, or NoZone
// when the total is 7 (free choice) or maps to no zone.
func (b *Board) ZoneForRoll(total int) ZoneID {
	for _, z := range b.Zones {
		if z.CoversRoll(total) {
			return z.ID
		}
	}
	return NoZone
}
