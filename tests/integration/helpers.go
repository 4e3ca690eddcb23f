package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-go/v2"
)

const (
	ServerKey = "defaultkey"
	HttpKey   = "defaulthttpkey"
	Host      = "127.0.0.1"
	Port      = 7350
)

// RoomResponse mirrors the create_room / join_room RPC response.
type RoomResponse struct {
	MatchID string `json:"match_id"`
	Code    string `json:"code"`
}

type TestClient struct {
	Client  *nakama.Client
	Session *nakama.Session
	Socket  *nakama.Socket
	UserID  string
}

func NewTestClient(t *testing.T) *TestClient {
	client := nakama.NewClient(ServerKey, Host, Port, false)

	// Create unique ID
	deviceID := fmt.Sprintf("test_device_%d", time.Now().UnixNano())

	// Authenticate
	session, err := client.AuthenticateDevice(context.Background(), deviceID, true, "")
	if err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}

	// Create Socket
	socket := client.NewSocket()
	if err := socket.Connect(context.Background(), session, true); err != nil {
		t.Fatalf("Failed to connect socket: %v", err)
	}

	return &TestClient{
		Client:  client,
		Session: session,
		Socket:  socket,
		UserID:  session.UserId,
	}
}

func (tc *TestClient) Close() {
	if tc.Socket != nil {
		tc.Socket.Close()
	}
}

// CreateRoom calls the 'create_room' RPC and joins the returned match.
func (tc *TestClient) CreateRoom(t *testing.T, name string) RoomResponse {
	payload := fmt.Sprintf("{\"name\": %q}", name)
	rpc, err := tc.Client.RpcFunc(context.Background(), tc.Session, "create_room", payload)
	if err != nil {
		t.Fatalf("RPC create_room failed: %v", err)
	}

	var room RoomResponse
	if err := json.Unmarshal([]byte(rpc.Payload), &room); err != nil {
		t.Fatalf("Failed to parse create_room response: %v", err)
	}
	if room.MatchID == "" || room.Code == "" {
		t.Fatalf("RPC create_room returned incomplete response: %s", rpc.Payload)
	}

	tc.JoinRoomMatch(t, room.MatchID, name)
	return room
}

// JoinRoomByCode calls the 'join_room' RPC and joins the resolved match.
func (tc *TestClient) JoinRoomByCode(t *testing.T, code, name string) RoomResponse {
	payload := fmt.Sprintf("{\"code\": %q}", code)
	rpc, err := tc.Client.RpcFunc(context.Background(), tc.Session, "join_room", payload)
	if err != nil {
		t.Fatalf("RPC join_room failed: %v", err)
	}

	var room RoomResponse
	if err := json.Unmarshal([]byte(rpc.Payload), &room); err != nil {
		t.Fatalf("Failed to parse join_room response: %v", err)
	}

	tc.JoinRoomMatch(t, room.MatchID, name)
	return room
}

// JoinRoomMatch joins a match socket with the display name in the join metadata.
func (tc *TestClient) JoinRoomMatch(t *testing.T, matchID, name string) {
	metadata := map[string]string{"name": name}
	if _, err := tc.Socket.JoinMatch(context.Background(), nil, matchID, metadata); err != nil {
		t.Fatalf("Failed to join match %s: %v", matchID, err)
	}
}

// SendJSON sends a match message with a JSON payload.
func (tc *TestClient) SendJSON(t *testing.T, matchID string, opCode int64, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}
	if _, err := tc.Socket.SendMatchState(context.Background(), matchID, opCode, data, nil); err != nil {
		t.Fatalf("Failed to send opcode %d: %v", opCode, err)
	}
}

// WaitForMatchState waits for a specific opcode from the socket.
func (tc *TestClient) WaitForMatchState(t *testing.T, opCode int64, timeout time.Duration) *rtapi.MatchData {
	ch := make(chan *rtapi.MatchData)

	// Hook into socket (This is simplistic; robust tests might need a better event bus)
	// nakama-go socket callbacks are set on the socket object.
	// We need to overwrite OnMatchData.

	originalHandler := tc.Socket.OnMatchData
	tc.Socket.OnMatchData = func(data *rtapi.MatchData) {
		if data.OpCode == opCode {
			ch <- data
		}
		if originalHandler != nil {
			originalHandler(data)
		}
	}

	select {
	case data := <-ch:
		return data
	case <-time.After(timeout):
		t.Fatalf("Timeout waiting for OpCode %d", opCode)
		return nil
	}
}
