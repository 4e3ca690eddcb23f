package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs and the match handler for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameDrawBetween, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(), nil
	}); err != nil {
		return err
	}

	logger.Info("Draw-between Go module loaded.")
	return nil
}

// RegisterRPCs registers the room and voice RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcIdCreateRoom, rpcCreateRoom); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcIdJoinRoom, rpcJoinRoom); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcIdVoiceToken, rpcVoiceToken)
}
