package app

import "drawbetween/internal/domain"

// EventKind identifies emitted game events for dispatch over the wire.
type EventKind string

const (
	EventWelcome      EventKind = "welcome"
	EventTableUpdate  EventKind = "update_table"
	EventNotification EventKind = "notification"
	EventHandDealt    EventKind = "new_hand_dealt"
	EventTimerStart   EventKind = "timer_start"
	EventTurnResolved EventKind = "turn_resolved"
	EventGameEnded    EventKind = "game_ended"
	EventBankrupt     EventKind = "you_are_bankrupt"
	EventGameReset    EventKind = "game_reset"
	EventChat         EventKind = "chat_received"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast to the whole table
}

// SeatSnapshot is the wire view of one seat. A nil entry means the seat is empty.
type SeatSnapshot struct {
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Money     int64  `json:"money"`
	SeatIndex int    `json:"seatIndex"`
}

// SnapshotSeats renders all six seat slots, preserving empty positions.
func SnapshotSeats(t *domain.Table) []*SeatSnapshot {
	out := make([]*SeatSnapshot, domain.TableSeats)
	for i, seat := range t.Seats {
		if seat == nil {
			continue
		}
		out[i] = &SeatSnapshot{
			Name:      seat.Name,
			Avatar:    seat.Avatar,
			Money:     seat.Money,
			SeatIndex: i,
		}
	}
	return out
}

type WelcomePayload struct {
	SeatIndex int    `json:"seatIndex"`
	RoomID    string `json:"roomId"`
	HostID    string `json:"hostId"`
}

type TableUpdatePayload struct {
	Seats         []*SeatSnapshot `json:"seats"`
	Pot           int64           `json:"pot"`
	Dealer        int             `json:"dealer"`
	ActiveSeat    int             `json:"activeSeat"`
	HostID        string          `json:"hostId"`
	IsRoundActive bool            `json:"isRoundActive"`
}

type NotificationPayload struct {
	Msg  string `json:"msg"`
	Type string `json:"type"` // "success" or "error"
}

type HandDealtPayload struct {
	Pot        int64           `json:"pot"`
	Card1      domain.Card     `json:"card1"`
	Card2      domain.Card     `json:"card2"`
	ActiveSeat int             `json:"activeSeat"`
	Seats      []*SeatSnapshot `json:"seats"`
	IsNewRound bool            `json:"isNewRound"`
}

type TimerStartPayload struct {
	Duration int `json:"duration"` // seconds
	Seat     int `json:"seat"`
}

type TurnResolvedPayload struct {
	SeatIndex  int             `json:"seatIndex"`
	Result     string          `json:"result"` // "pass", "win" or "lose"
	Amount     int64           `json:"amount"` // actually deducted amount, not the nominal one
	CardResult *domain.Card    `json:"cardResult,omitempty"`
	Seats      []*SeatSnapshot `json:"seats"`
	Pot        int64           `json:"pot"`
}

type GameEndedPayload struct {
	WinnerSeat int    `json:"winnerSeat"` // NoSeat when nobody won
	Reason     string `json:"reason"`
}

type ChatPayload struct {
	SeatIndex int    `json:"seatIndex"`
	Msg       string `json:"msg"`
}
