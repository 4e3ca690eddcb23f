package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"drawbetween/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RpcVoiceToken mints an access token for a table's voice channel.
// Payload: {"action": "login" | "join", "roomCode": "..."}
func rpcVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req struct {
		Action   string `json:"action"`
		RoomCode string `json:"roomCode"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	issuer := env["voice_issuer"]
	secret := env["voice_secret"]
	domainName := env["voice_domain"]
	if issuer == "" || secret == "" || domainName == "" {
		issuer = "test-issuer"
		secret = "test-secret"
		domainName = "voice.example.com"
		logger.Warn("Voice credentials missing from env, using test defaults.")
	}

	svc := app.NewVoiceService(secret, issuer, domainName)
	token, err := svc.GenerateToken(userID, req.Action, req.RoomCode)
	if err != nil {
		logger.Error("Failed to generate voice token for %s: %v", userID, err)
		return "", runtime.NewError("could not generate voice token", 3)
	}

	resp, _ := json.Marshal(map[string]string{"token": token})
	return string(resp), nil
}
