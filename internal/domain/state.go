package domain

// Phase represents the lifecycle stage of a table.
type Phase string

const (
	// PhaseLobby is the idle state between rounds; players can join and the host can start a round.
	PhaseLobby Phase = "lobby"
	// PhasePlaying is the state while a betting round is in progress.
	PhasePlaying Phase = "playing"
)

const (
	// TableSeats is the fixed number of seats at a table.
	TableSeats = 6
	// StartingBankroll is the money a player sits down with.
	StartingBankroll int64 = 1000
	// MaxNameLength caps a display name.
	MaxNameLength = 10
	// MaxChatLength caps a table chat message.
	MaxChatLength = 20
	// NoSeat marks an unset seat pointer (active seat, dealer seat, winner).
	NoSeat = -1
	// DefaultTurnDuration is the per-turn deadline in seconds.
	DefaultTurnDuration = 15
)

// Card is a single playing card. A drawn card is a value copy; the deck keeps
// no reference to it.
type Card struct {
	Rank  int    `json:"rank"` // 1 (Ace) .. 13 (King)
	Suit  string `json:"suit"` // "♠","♥","♣","♦"
	Face  string `json:"face"` // display label: "A","2",..,"10","J","Q","K"
	Color string `json:"color"`
}

// Seat holds the state of an occupied table position.
type Seat struct {
	UserID string `json:"-"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Money  int64  `json:"money"`
}

// Table holds authoritative state for a single draw-between table.
type Table struct {
	Code       string
	HostUserID string

	Seats [TableSeats]*Seat
	Deck  *Deck

	Pot     int64
	Ante    int64
	Penalty int64

	Card1 *Card // first boundary card, stored as drawn
	Card2 *Card // second boundary card, stored as drawn

	ActiveSeat   int
	DealerSeat   int
	TurnDuration int // seconds
	Phase        Phase
}
