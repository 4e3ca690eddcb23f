package app

import (
	"errors"
	"fmt"

	"drawbetween/internal/domain"
)

// Round end reasons broadcast with game_ended.
const (
	ReasonPotEmpty        = "Pot Empty"
	ReasonLastManStanding = "Last Man Standing"
	ReasonHouseWins       = "House Wins"
	ReasonOpponentLeft    = "Opponent Left"
)

// ActionKind is a player's choice on their turn.
type ActionKind string

const (
	ActionBet  ActionKind = "bet"
	ActionPass ActionKind = "pass"
)

// TurnTrigger is the single input to turn resolution. Both a player message
// and an expired deadline produce one of these, so they share one code path.
type TurnTrigger struct {
	UserID string
	Action ActionKind
	Amount int64
}

var (
	ErrRoomFull      = errors.New("no free seat at the table")
	ErrNotHost       = errors.New("actor is not the room host")
	ErrNotYourTurn   = errors.New("actor does not own the active seat")
	ErrNoActiveRound = errors.New("no round in progress")
	ErrRoundActive   = errors.New("round already in progress")
	ErrTooFewPlayers = errors.New("fewer than two seats have money")
	ErrNotSeated     = errors.New("actor is not seated at the table")
)

// Service contains the draw-between use-cases operating on a single table.
// All methods mutate the table and return the events to dispatch; the caller
// (the match handler) owns serialization and delivery.
type Service struct{}

// NewService constructs a Service.
func NewService() *Service {
	return &Service{}
}

// Join seats a player at the lowest free seat with the starting bankroll.
// A player who is already seated keeps their seat.
func (s *Service) Join(t *domain.Table, userID, name, avatar string) (int, []Event, error) {
	if existing := t.SeatOf(userID); existing != domain.NoSeat {
		return existing, []Event{
			s.welcomeEvent(t, existing, userID),
			s.tableUpdateEvent(t),
		}, nil
	}

	seatIndex := t.LowestAvailableSeat()
	if seatIndex == domain.NoSeat {
		return domain.NoSeat, nil, ErrRoomFull
	}

	t.Seats[seatIndex] = &domain.Seat{
		UserID: userID,
		Name:   truncate(name, domain.MaxNameLength),
		Avatar: avatar,
		Money:  domain.StartingBankroll,
	}

	if t.HostUserID == "" {
		t.HostUserID = userID
	}

	events := []Event{
		{
			Kind:       EventNotification,
			Payload:    NotificationPayload{Msg: fmt.Sprintf("%s joined the table!", t.Seats[seatIndex].Name), Type: "success"},
			Recipients: seatedUsersExcept(t, userID),
		},
		s.welcomeEvent(t, seatIndex, userID),
		s.tableUpdateEvent(t),
	}
	return seatIndex, events, nil
}

// Leave vacates the player's seat, migrating the host role and repairing an
// interrupted turn. It is used for explicit departure and disconnect alike.
func (s *Service) Leave(t *domain.Table, userID string) []Event {
	seatIndex := t.SeatOf(userID)
	if seatIndex == domain.NoSeat {
		return nil
	}

	name := t.Seats[seatIndex].Name
	t.Seats[seatIndex] = nil

	events := []Event{{
		Kind:    EventNotification,
		Payload: NotificationPayload{Msg: fmt.Sprintf("%s left the table.", name), Type: "error"},
	}}

	// Host migration: promote the lowest remaining occupied seat.
	if userID == t.HostUserID {
		if first := t.FirstOccupiedSeat(); first != domain.NoSeat {
			t.HostUserID = t.Seats[first].UserID
			events = append(events, Event{
				Kind:    EventNotification,
				Payload: NotificationPayload{Msg: fmt.Sprintf("%s is now the Room Host.", t.Seats[first].Name), Type: "success"},
			})
		} else {
			t.HostUserID = ""
		}
	}

	if t.Phase == domain.PhasePlaying && seatIndex == t.ActiveSeat {
		solvent := t.SolventSeats()
		if len(solvent) < 2 {
			winner := domain.NoSeat
			if len(solvent) == 1 {
				winner = solvent[0]
				t.Seats[winner].Money += t.Pot
				t.Pot = 0
			}
			events = append(events, s.endRound(t, winner, ReasonOpponentLeft)...)
			return events
		}
		next, ok := domain.NextEligibleSeat(&t.Seats, t.ActiveSeat)
		if !ok {
			events = append(events, s.endRound(t, domain.NoSeat, ReasonHouseWins)...)
			return events
		}
		t.ActiveSeat = next
		events = append(events, s.dealHand(t, false)...)
		return events
	}

	events = append(events, s.tableUpdateEvent(t))
	return events
}

// StartRound begins a betting round: collects antes, rotates the dealer and
// deals the opening hand. Misuse (non-host, too few solvent players, round
// already running) is reported as an error for the caller to ignore silently.
func (s *Service) StartRound(t *domain.Table, userID string) ([]Event, error) {
	if userID != t.HostUserID {
		return nil, ErrNotHost
	}
	if t.Phase == domain.PhasePlaying {
		return nil, ErrRoundActive
	}
	if len(t.SolventSeats()) < 2 {
		return nil, ErrTooFewPlayers
	}

	t.Phase = domain.PhasePlaying

	// Every solvent seat antes up to the table ante; a short stack antes what
	// it has instead of sitting out.
	for _, seat := range t.Seats {
		if seat != nil && seat.Money > 0 {
			contribution := min(seat.Money, t.Ante)
			seat.Money -= contribution
			t.Pot += contribution
		}
	}

	if t.DealerSeat == domain.NoSeat {
		// First round: the host deals if seated, otherwise the first solvent seat.
		if hostSeat := t.SeatOf(t.HostUserID); hostSeat != domain.NoSeat {
			t.DealerSeat = hostSeat
		} else {
			solvent := t.SolventSeats()
			t.DealerSeat = solvent[0]
		}
	} else if next, ok := domain.NextEligibleSeat(&t.Seats, t.DealerSeat); ok {
		t.DealerSeat = next
	}

	// A departure racing the rotation can leave the dealer pointer on an
	// empty seat; rotate once more.
	if t.Seats[t.DealerSeat] == nil {
		if next, ok := domain.NextEligibleSeat(&t.Seats, t.DealerSeat); ok {
			t.DealerSeat = next
		}
	}

	t.ActiveSeat = t.DealerSeat

	events := []Event{s.tableUpdateEvent(t)}
	events = append(events, s.dealHand(t, true)...)
	return events, nil
}

// ResolveTurn resolves the active seat's action. It validates that the
// trigger's user still owns the active seat, which makes a stale deadline
// firing after a just-resolved action a safe no-op.
func (s *Service) ResolveTurn(t *domain.Table, trigger TurnTrigger) ([]Event, error) {
	if t.Phase != domain.PhasePlaying {
		return nil, ErrNoActiveRound
	}
	seatIndex := t.SeatOf(trigger.UserID)
	if seatIndex == domain.NoSeat || seatIndex != t.ActiveSeat {
		return nil, ErrNotYourTurn
	}
	seat := t.Seats[seatIndex]

	result := string(ActionPass)
	var amount int64
	var cardResult *domain.Card

	switch trigger.Action {
	case ActionBet:
		// Server-side clamp; the client-sent amount is never trusted further.
		amount = max(int64(0), min(trigger.Amount, seat.Money))
		seat.Money -= amount
		drawn := t.Deck.Draw()
		cardResult = &drawn

		low := min(t.Card1.Rank, t.Card2.Rank)
		high := max(t.Card1.Rank, t.Card2.Rank)
		if drawn.Rank > low && drawn.Rank < high {
			seat.Money += amount * 2
			t.Pot -= amount
			result = "win"
		} else {
			t.Pot += amount
			result = "lose"
		}
	default: // pass, including the synthesized timeout pass
		amount = min(seat.Money, t.Penalty)
		seat.Money -= amount
		t.Pot += amount
	}

	events := []Event{{
		Kind: EventTurnResolved,
		Payload: TurnResolvedPayload{
			SeatIndex:  seatIndex,
			Result:     result,
			Amount:     amount,
			CardResult: cardResult,
			Seats:      SnapshotSeats(t),
			Pot:        max(t.Pot, 0),
		},
	}}

	// Termination checks, in priority order.
	if t.Pot <= 0 {
		return append(events, s.endRound(t, seatIndex, ReasonPotEmpty)...), nil
	}

	solvent := t.SolventSeats()
	if len(solvent) == 1 {
		survivor := solvent[0]
		t.Seats[survivor].Money += t.Pot
		t.Pot = 0
		return append(events, s.endRound(t, survivor, ReasonLastManStanding)...), nil
	}
	if len(solvent) == 0 {
		return append(events, s.endRound(t, domain.NoSeat, ReasonHouseWins)...), nil
	}

	if seat.Money <= 0 {
		events = append(events,
			Event{Kind: EventBankrupt, Recipients: []string{seat.UserID}},
		)
		t.Seats[seatIndex] = nil
		events = append(events, s.tableUpdateEvent(t))
	}

	next, ok := domain.NextEligibleSeat(&t.Seats, t.ActiveSeat)
	if !ok {
		return append(events, s.endRound(t, domain.NoSeat, ReasonHouseWins)...), nil
	}
	t.ActiveSeat = next
	return append(events, s.dealHand(t, false)...), nil
}

// ResetGame restores every occupied seat to the starting bankroll and clears
// round state. Host-only; allowed whether or not a round has ended.
func (s *Service) ResetGame(t *domain.Table, userID string) ([]Event, error) {
	if userID != t.HostUserID {
		return nil, ErrNotHost
	}

	for _, seat := range t.Seats {
		if seat != nil {
			seat.Money = domain.StartingBankroll
		}
	}
	t.Pot = 0
	t.ActiveSeat = domain.NoSeat
	t.Phase = domain.PhaseLobby
	t.Card1 = nil
	t.Card2 = nil

	return []Event{
		s.tableUpdateEvent(t),
		{Kind: EventGameReset},
	}, nil
}

// Chat relays a seated player's table chat message, truncated to the cap.
func (s *Service) Chat(t *domain.Table, userID, msg string) ([]Event, error) {
	seatIndex := t.SeatOf(userID)
	if seatIndex == domain.NoSeat {
		return nil, ErrNotSeated
	}
	return []Event{{
		Kind:    EventChat,
		Payload: ChatPayload{SeatIndex: seatIndex, Msg: truncate(msg, domain.MaxChatLength)},
	}}, nil
}

// dealHand draws the two boundary cards, announces the hand and arms the turn
// deadline for the active seat.
func (s *Service) dealHand(t *domain.Table, isNewRound bool) []Event {
	card1 := t.Deck.Draw()
	card2 := t.Deck.Draw()
	t.Card1 = &card1
	t.Card2 = &card2

	return []Event{
		{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				Pot:        t.Pot,
				Card1:      card1,
				Card2:      card2,
				ActiveSeat: t.ActiveSeat,
				Seats:      SnapshotSeats(t),
				IsNewRound: isNewRound,
			},
		},
		{
			Kind:    EventTimerStart,
			Payload: TimerStartPayload{Duration: t.TurnDuration, Seat: t.ActiveSeat},
		},
	}
}

// endRound announces the result, evicts broke seats and returns the table to
// the lobby phase. The dealer pointer survives so rotation continues next round.
func (s *Service) endRound(t *domain.Table, winnerSeat int, reason string) []Event {
	events := []Event{{
		Kind:    EventGameEnded,
		Payload: GameEndedPayload{WinnerSeat: winnerSeat, Reason: reason},
	}}

	// Sweep seats bankrupted by payout arithmetic rather than a direct action.
	for i, seat := range t.Seats {
		if seat != nil && seat.Money <= 0 {
			events = append(events, Event{Kind: EventBankrupt, Recipients: []string{seat.UserID}})
			t.Seats[i] = nil
		}
	}

	t.Pot = 0
	t.ActiveSeat = domain.NoSeat
	t.Phase = domain.PhaseLobby
	t.Card1 = nil
	t.Card2 = nil

	return append(events, s.tableUpdateEvent(t))
}

func (s *Service) tableUpdateEvent(t *domain.Table) Event {
	return Event{
		Kind: EventTableUpdate,
		Payload: TableUpdatePayload{
			Seats:         SnapshotSeats(t),
			Pot:           t.Pot,
			Dealer:        t.DealerSeat,
			ActiveSeat:    t.ActiveSeat,
			HostID:        t.HostUserID,
			IsRoundActive: t.Phase == domain.PhasePlaying,
		},
	}
}

func (s *Service) welcomeEvent(t *domain.Table, seatIndex int, userID string) Event {
	return Event{
		Kind:       EventWelcome,
		Payload:    WelcomePayload{SeatIndex: seatIndex, RoomID: t.Code, HostID: t.HostUserID},
		Recipients: []string{userID},
	}
}

func seatedUsersExcept(t *domain.Table, userID string) []string {
	var out []string
	for _, seat := range t.Seats {
		if seat != nil && seat.UserID != userID {
			out = append(out, seat.UserID)
		}
	}
	return out
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
