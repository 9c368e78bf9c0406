package brackets

import "math/rand/v2"

// SeedMap maps a participant id to its seed number. Entries may be sparse.
type SeedMap map[int]int

// Shuffler randomizes the order of n elements. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// DrawMatch is a first-round pairing of two adjacent bracket slots.
type DrawMatch struct {
	MatchNumber  int         `json:"match_number"`
	ParticipantA Participant `json:"participant_a"`
	ParticipantB Participant `json:"participant_b"`
	SeedA        *int        `json:"seed_a"`
	SeedB        *int        `json:"seed_b"`
	IsBye        bool        `json:"is_bye"`
}

// Draw is the result of placing a roster into a power-of-two bracket.
type Draw struct {
	Matches          []DrawMatch   `json:"matches"`
	Positions        []Participant `json:"-"`
	BracketSize      int           `json:"bracket_size"`
	MatchAmount      int           `json:"match_amount"`
	HasSeeds         bool          `json:"has_seeds"`
	ParticipantCount int           `json:"participant_count"`
}

// NextPowerOfTwo returns the smallest power of two >= n. Non-positive n maps to 1.
func NextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// StandardSeedPositions returns the seed number placed at each slot of a
// bracket of the given size. Seeds 1 and 2 land in opposite halves, and the
// same holds recursively inside every half.
func StandardSeedPositions(bracketSize int) []int {
	if bracketSize <= 0 {
		return []int{}
	}
	if bracketSize == 1 {
		return []int{1}
	}

	positions := []int{1, 2}
	for len(positions) < bracketSize {
		currentSize := len(positions)
		nextSeed := currentSize + 1
		next := make([]int, 0, currentSize*2)
		for _, seed := range positions {
			next = append(next, seed, nextSeed+currentSize-seed)
		}
		positions = next
	}
	return positions
}

// GenerateDraw places participants into bracket slots.
//
// Seeded participants go to the canonical slot of their seed; seeds larger
// than the bracket are dropped. Without any seeds the roster order is used as
// the seeding, unless preview is set, in which case the slots stay empty.
// Unseeded participants are shuffled with r (the global source when nil) and
// fill the remaining slots in index order. Preview never fills unseeded slots
// and never touches r. Nil entries are skipped.
func GenerateDraw(participants []Participant, seeds SeedMap, preview bool, r Shuffler) Draw {
	participants = presentParticipants(participants)
	count := len(participants)
	if count == 0 {
		return Draw{Matches: []DrawMatch{}, Positions: []Participant{}}
	}

	bracketSize := NextPowerOfTwo(count)
	draw := Draw{
		BracketSize:      bracketSize,
		MatchAmount:      bracketSize / 2,
		ParticipantCount: count,
	}

	seedPositions := StandardSeedPositions(bracketSize)
	slotForSeed := make(map[int]int, bracketSize)
	for slot, seed := range seedPositions {
		slotForSeed[seed] = slot
	}

	positions := make([]Participant, bracketSize)
	slotSeeds := make([]int, bracketSize)

	var seeded, unseeded []Participant
	for _, p := range participants {
		if seed, ok := seeds[p.GetID()]; ok && seed > 0 {
			seeded = append(seeded, p)
		} else {
			unseeded = append(unseeded, p)
		}
	}
	draw.HasSeeds = len(seeded) > 0

	if !draw.HasSeeds {
		if !preview {
			for i, p := range participants {
				slot := slotForSeed[i+1]
				positions[slot] = p
				slotSeeds[slot] = i + 1
			}
		}
	} else {
		for _, p := range seeded {
			seed := seeds[p.GetID()]
			slot, ok := slotForSeed[seed]
			if !ok {
				continue
			}
			positions[slot] = p
			slotSeeds[slot] = seed
		}

		if !preview && len(unseeded) > 0 {
			shuffled := make([]Participant, len(unseeded))
			copy(shuffled, unseeded)
			swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
			if r != nil {
				r.Shuffle(len(shuffled), swap)
			} else {
				rand.Shuffle(len(shuffled), swap)
			}

			next := 0
			for slot := 0; slot < bracketSize && next < len(shuffled); slot++ {
				if positions[slot] == nil {
					positions[slot] = shuffled[next]
					next++
				}
			}
		}
	}

	draw.Positions = positions
	draw.Matches = pairSlots(positions, slotSeeds)
	return draw
}

// SlotOf returns the slot index holding the participant with the given id, or -1.
func (d Draw) SlotOf(participantID int) int {
	for slot, p := range d.Positions {
		if p != nil && p.GetID() == participantID {
			return slot
		}
	}
	return -1
}

func pairSlots(positions []Participant, slotSeeds []int) []DrawMatch {
	matches := make([]DrawMatch, 0, len(positions)/2)
	for i := 0; i+1 < len(positions); i += 2 {
		a, b := positions[i], positions[i+1]
		matches = append(matches, DrawMatch{
			MatchNumber:  i/2 + 1,
			ParticipantA: a,
			ParticipantB: b,
			SeedA:        seedRef(a, slotSeeds[i]),
			SeedB:        seedRef(b, slotSeeds[i+1]),
			IsBye:        a == nil || b == nil,
		})
	}
	return matches
}

func seedRef(p Participant, seed int) *int {
	if p == nil || seed <= 0 {
		return nil
	}
	return &seed
}
