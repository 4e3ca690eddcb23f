package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

// Opcodes mirrored from the server module.
const (
	OpStartRound int64 = 1
	OpAction     int64 = 2

	OpNewHandDealt int64 = 103
	OpTurnResolved int64 = 105
)

type seatSnapshot struct {
	Name  string `json:"name"`
	Money int64  `json:"money"`
}

type handDealtEvent struct {
	Pot        int64           `json:"pot"`
	ActiveSeat int             `json:"activeSeat"`
	Seats      []*seatSnapshot `json:"seats"`
	IsNewRound bool            `json:"isNewRound"`
}

type turnResolvedEvent struct {
	SeatIndex int    `json:"seatIndex"`
	Result    string `json:"result"`
	Amount    int64  `json:"amount"`
	Pot       int64  `json:"pot"`
}

func TestCreateRoomAndPlayOpeningTurn(t *testing.T) {
	// 1. Host creates a room and a friend joins it by code.
	host := NewTestClient(t)
	defer host.Close()
	friend := NewTestClient(t)
	defer friend.Close()

	room := host.CreateRoom(t, "Alice")
	t.Logf("Host created room %s (%s)", room.Code, room.MatchID)

	joined := friend.JoinRoomByCode(t, room.Code, "Bob")
	if joined.MatchID != room.MatchID {
		t.Fatalf("join_room resolved %s, want %s", joined.MatchID, room.MatchID)
	}
	t.Log("Friend joined by room code")

	// Wait a bit for presences to sync
	time.Sleep(1 * time.Second)

	// 2. Host starts the round. Default stakes: ante 50 from each of 2 players.
	host.SendJSON(t, room.MatchID, OpStartRound, map[string]interface{}{})

	for i, c := range []*TestClient{host, friend} {
		t.Logf("Waiting for opening hand on client %d...", i)
		data := c.WaitForMatchState(t, OpNewHandDealt, 5*time.Second)

		var hand handDealtEvent
		if err := json.Unmarshal(data.Data, &hand); err != nil {
			t.Fatalf("Client %d failed to unmarshal hand: %v", i, err)
		}
		if !hand.IsNewRound {
			t.Errorf("Client %d: opening hand not flagged as new round", i)
		}
		if hand.Pot != 100 {
			t.Errorf("Client %d: pot = %d, want 100", i, hand.Pot)
		}
		if hand.ActiveSeat != 0 {
			t.Errorf("Client %d: active seat = %d, want host seat 0", i, hand.ActiveSeat)
		}
		occupied := 0
		for _, seat := range hand.Seats {
			if seat != nil {
				occupied++
			}
		}
		if occupied != 2 {
			t.Errorf("Client %d: %d occupied seats, want 2", i, occupied)
		}
	}

	// 3. Host bets 10 on the active turn; everyone sees the resolution.
	host.SendJSON(t, room.MatchID, OpAction, map[string]interface{}{
		"action": "bet",
		"amount": 10,
	})

	data := friend.WaitForMatchState(t, OpTurnResolved, 5*time.Second)
	var resolved turnResolvedEvent
	if err := json.Unmarshal(data.Data, &resolved); err != nil {
		t.Fatalf("Failed to unmarshal turn resolution: %v", err)
	}
	if resolved.SeatIndex != 0 {
		t.Errorf("Resolved seat = %d, want 0", resolved.SeatIndex)
	}
	if resolved.Amount != 10 {
		t.Errorf("Resolved amount = %d, want 10", resolved.Amount)
	}
	if resolved.Result != "win" && resolved.Result != "lose" {
		t.Errorf("Resolved result = %q, want win or lose", resolved.Result)
	}

	t.Log("TestPassed: room created, joined by code and opening turn resolved.")
}

func TestJoinRoomRejectsUnknownCode(t *testing.T) {
	client := NewTestClient(t)
	defer client.Close()

	if _, err := client.Client.RpcFunc(context.Background(), client.Session, "join_room", `{"code":"NOPE1"}`); err == nil {
		t.Fatal("join_room with an unknown code should fail")
	}
}
