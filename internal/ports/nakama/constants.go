package nakama

const (
	// RpcIdCreateRoom creates a new table and returns its match ID and room code.
	RpcIdCreateRoom = "create_room"
	// RpcIdJoinRoom resolves a room code to a joinable match ID.
	RpcIdJoinRoom = "join_room"
	// RpcIdVoiceToken mints a voice channel access token for a table.
	RpcIdVoiceToken = "voice_token"

	// MatchNameDrawBetween is the authoritative match handler name registered with Nakama.
	MatchNameDrawBetween = "drawbetween_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartRound int64 = 1
	OpAction     int64 = 2
	OpChat       int64 = 3
	OpResetGame  int64 = 4

	// Server -> Client events
	OpWelcome      int64 = 101
	OpTableUpdate  int64 = 102
	OpNewHandDealt int64 = 103
	OpTimerStart   int64 = 104
	OpTurnResolved int64 = 105
	OpGameEnded    int64 = 106
	OpBankrupt     int64 = 107 // sent privately
	OpGameReset    int64 = 108
	OpChatReceived int64 = 109
	OpNotification int64 = 110
	OpError        int64 = 111 // sent privately
)
