package domain

import "math/rand"

// NewTable constructs an empty table with the given stakes. rng may be nil to
// use a time-seeded deck.
func NewTable(code string, ante, penalty int64, turnDuration int, rng *rand.Rand) *Table {
	if ante <= 0 {
		ante = 50
	}
	if penalty <= 0 {
		penalty = 10
	}
	if turnDuration <= 0 {
		turnDuration = DefaultTurnDuration
	}
	return &Table{
		Code:         code,
		Deck:         NewDeck(rng),
		Ante:         ante,
		Penalty:      penalty,
		ActiveSeat:   NoSeat,
		DealerSeat:   NoSeat,
		TurnDuration: turnDuration,
		Phase:        PhaseLobby,
	}
}

// LowestAvailableSeat returns the first free seat index, or NoSeat when the
// table is full.
func (t *Table) LowestAvailableSeat() int {
	for i, seat := range t.Seats {
		if seat == nil {
			return i
		}
	}
	return NoSeat
}

// SeatOf returns the seat index occupied by userID, or NoSeat.
func (t *Table) SeatOf(userID string) int {
	for i, seat := range t.Seats {
		if seat != nil && seat.UserID == userID {
			return i
		}
	}
	return NoSeat
}

// OccupiedCount returns the number of occupied seats.
func (t *Table) OccupiedCount() int {
	count := 0
	for _, seat := range t.Seats {
		if seat != nil {
			count++
		}
	}
	return count
}

// SolventSeats returns the indices of occupied seats whose player still has money.
func (t *Table) SolventSeats() []int {
	var out []int
	for i, seat := range t.Seats {
		if seat != nil && seat.Money > 0 {
			out = append(out, i)
		}
	}
	return out
}

// FirstOccupiedSeat returns the lowest occupied seat index, or NoSeat.
func (t *Table) FirstOccupiedSeat() int {
	for i, seat := range t.Seats {
		if seat != nil {
			return i
		}
	}
	return NoSeat
}

// NextEligibleSeat walks seat indices circularly from the seat after `from`,
// skipping empty seats and seats whose player is out of money. It reports
// ok=false when a full lap finds no eligible seat; callers must treat that as
// "no turn can be taken" rather than acting on the returned index.
func NextEligibleSeat(seats *[TableSeats]*Seat, from int) (int, bool) {
	next := (from + 1) % TableSeats
	for lap := 0; lap < TableSeats; lap++ {
		if seats[next] != nil && seats[next].Money > 0 {
			return next, true
		}
		next = (next + 1) % TableSeats
	}
	return from, false
}

// Label is the match label advertised for room-code lookup and lobby listings.
type Label struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
	Code  string `json:"code"`
}

// GameName identifies this game in match labels.
const GameName = "drawbetween"

// ComputeLabel derives the advertised label from table state.
func ComputeLabel(t *Table) Label {
	open := t.Phase == PhaseLobby && t.OccupiedCount() < TableSeats
	return Label{Open: open, Game: GameName, Phase: string(t.Phase), Code: t.Code}
}
