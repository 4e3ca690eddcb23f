package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"drawbetween/internal/config"
	"drawbetween/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

const roomCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxCodeAttempts bounds regeneration when a generated code collides with a
// live room.
const maxCodeAttempts = 10

// CreateRoomRequest is the create_room RPC payload. Ante and penalty fall
// back to configured defaults when zero.
type CreateRoomRequest struct {
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
	Ante    int64  `json:"ante"`
	Penalty int64  `json:"penalty"`
}

// RoomResponse is returned by both create_room and join_room.
type RoomResponse struct {
	MatchID string `json:"match_id"`
	Code    string `json:"code"`
}

// JoinRoomRequest is the join_room RPC payload. Codes are matched
// case-insensitively.
type JoinRoomRequest struct {
	Code string `json:"code"`
}

// rpcCreateRoom creates an authoritative match for a new table. The caller
// becomes the room host once their socket joins the match.
func rpcCreateRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req CreateRoomRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
		}
	}
	if req.Ante < 0 || req.Penalty < 0 {
		return "", runtime.NewError("ante and penalty must be positive", 3)
	}

	defaultAnte, defaultPenalty := config.DefaultStakes()
	if req.Ante == 0 {
		req.Ante = defaultAnte
	}
	if req.Penalty == 0 {
		req.Penalty = defaultPenalty
	}

	code, err := generateRoomCode(ctx, nk)
	if err != nil {
		logger.Error("RpcCreateRoom [User:%s]: %v", userID, err)
		return "", runtime.NewError("could not allocate a room code", 13) // INTERNAL
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameDrawBetween, map[string]interface{}{
		"code":    code,
		"ante":    req.Ante,
		"penalty": req.Penalty,
		"host":    userID,
	})
	if err != nil {
		logger.Error("RpcCreateRoom [User:%s]: Failed to create match: %v", userID, err)
		return "", runtime.NewError("could not create room", 13)
	}

	logger.Info("RpcCreateRoom [User:%s]: Created room %s (%s)", userID, code, matchID)
	resp, _ := json.Marshal(RoomResponse{MatchID: matchID, Code: code})
	return string(resp), nil
}

// rpcJoinRoom resolves a room code to the match ID the client should join.
// This is the one failure path surfaced to users rather than dropped.
func rpcJoinRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req JoinRoomRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return "", runtime.NewError("room code is required", 3)
	}

	matchID, err := findRoomByCode(ctx, nk, code)
	if err != nil {
		logger.Error("RpcJoinRoom [User:%s]: Lookup failed: %v", userID, err)
		return "", runtime.NewError("could not look up room", 13)
	}
	if matchID == "" {
		return "", runtime.NewError("Room not found!", 5) // NOT_FOUND
	}

	resp, _ := json.Marshal(RoomResponse{MatchID: matchID, Code: code})
	return string(resp), nil
}

// findRoomByCode queries the live registry by match label. Returns an empty
// match ID when no room advertises the code.
func findRoomByCode(ctx context.Context, nk runtime.NakamaModule, code string) (string, error) {
	limit := 1
	authoritative := true
	minSize := 0
	maxSize := domain.TableSeats
	query := fmt.Sprintf("+label.game:%s +label.code:%s", domain.GameName, code)

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	return matches[0].MatchId, nil
}

// generateRoomCode produces a short human-typeable code that no live room is
// using, regenerating on collision.
func generateRoomCode(ctx context.Context, nk runtime.NakamaModule) (string, error) {
	length := config.RoomCodeLength()
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := randomRoomCode(length)

		existing, err := findRoomByCode(ctx, nk, code)
		if err != nil {
			return "", err
		}
		if existing == "" {
			return code, nil
		}
	}
	return "", fmt.Errorf("exhausted %d room code attempts", maxCodeAttempts)
}

func randomRoomCode(length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = roomCodeChars[rand.Intn(len(roomCodeChars))]
	}
	return string(buf)
}
