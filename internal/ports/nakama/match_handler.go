package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"drawbetween/internal/app"
	"drawbetween/internal/config"
	"drawbetween/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// tickRate is the match loop frequency; turn deadlines are tick arithmetic.
const tickRate = 1

// JoinProfile carries display data a client supplies when joining a match.
type JoinProfile struct {
	Name   string
	Avatar string
}

// MatchState holds the authoritative runtime state for one table.
type MatchState struct {
	Table     *domain.Table
	Presences map[string]runtime.Presence
	// PendingProfiles stashes join metadata between MatchJoinAttempt and MatchJoin.
	PendingProfiles map[string]JoinProfile
	App             *app.Service

	Tick int64
	// TurnExpiresTick is the tick at which the active seat's deadline elapses;
	// zero means no deadline is armed. Clearing and re-arming happens on the
	// single match goroutine, so a deadline and a player action can never
	// resolve the same turn twice.
	TurnExpiresTick int64
}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match (room) is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	defaultAnte, defaultPenalty := config.DefaultStakes()
	code := paramString(params, "code")
	ante := paramInt64(params, "ante", defaultAnte)
	penalty := paramInt64(params, "penalty", defaultPenalty)

	table := domain.NewTable(code, ante, penalty, config.TurnDuration(), nil)
	table.HostUserID = paramString(params, "host")

	state := &MatchState{
		Table:           table,
		Presences:       make(map[string]runtime.Presence),
		PendingProfiles: make(map[string]JoinProfile),
		App:             app.NewService(),
	}

	labelBytes, err := json.Marshal(domain.ComputeLabel(table))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	logger.Info("MatchInit: Room %s created (ante=%d, penalty=%d).", code, ante, penalty)
	return state, tickRate, string(labelBytes)
}

// MatchJoinAttempt rejects joins to a full table and records join metadata.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	s, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	userID := presence.GetUserId()
	if s.Table.SeatOf(userID) == domain.NoSeat && s.Table.LowestAvailableSeat() == domain.NoSeat {
		return s, false, "room_full"
	}

	s.PendingProfiles[userID] = JoinProfile{
		Name:   metadata["name"],
		Avatar: metadata["avatar"],
	}
	return s, true, ""
}

// MatchJoin seats joining presences and announces them to the table.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	s.Tick = tick

	for _, p := range presences {
		userID := p.GetUserId()
		s.Presences[userID] = p

		profile := s.PendingProfiles[userID]
		delete(s.PendingProfiles, userID)
		if profile.Name == "" {
			profile.Name = p.GetUsername()
		}

		seatIndex, events, err := s.App.Join(s.Table, userID, profile.Name, profile.Avatar)
		if err != nil {
			// A concurrent join attempt slipped past the capacity check.
			logger.Warn("MatchJoin: User %s joined but no seat was available: %v", userID, err)
			continue
		}
		logger.Debug("MatchJoin: User %s seated at %d.", userID, seatIndex)
		mh.dispatchEvents(s, dispatcher, logger, events)
	}

	mh.updateLabel(s, dispatcher, logger)
	return s
}

// MatchLeave vacates seats for departing presences; an empty table terminates
// the match, which removes the room from the registry.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	s.Tick = tick

	for _, p := range presences {
		userID := p.GetUserId()
		delete(s.Presences, userID)
		delete(s.PendingProfiles, userID)

		events := s.App.Leave(s.Table, userID)
		mh.dispatchEvents(s, dispatcher, logger, events)
	}

	if s.Table.OccupiedCount() == 0 {
		logger.Info("MatchLeave: Room %s is empty, tearing down.", s.Table.Code)
		return nil
	}

	mh.updateLabel(s, dispatcher, logger)
	return s
}

// MatchLoop processes inbound player messages, then the turn deadline.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		return state
	}
	s.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartRound:
			mh.handleStartRound(s, dispatcher, logger, msg)
		case OpAction:
			mh.handleAction(s, dispatcher, logger, msg)
		case OpChat:
			mh.handleChat(s, dispatcher, logger, msg)
		case OpResetGame:
			mh.handleResetGame(s, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processTurnDeadline(s, dispatcher, logger)
	return s
}

func (mh *matchHandler) handleStartRound(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	events, err := s.App.StartRound(s.Table, msg.GetUserId())
	if err != nil {
		// Misuse from a stale or hostile client is dropped without a reply.
		logger.Debug("StartRound: Ignoring request from %s: %v", msg.GetUserId(), err)
		return
	}
	mh.dispatchEvents(s, dispatcher, logger, events)
	mh.updateLabel(s, dispatcher, logger)
}

func (mh *matchHandler) handleAction(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req struct {
		Action string `json:"action"`
		Amount int64  `json:"amount"`
	}
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("HandleAction: Invalid payload from %s: %v", msg.GetUserId(), err)
		mh.sendError(s, dispatcher, logger, msg.GetUserId(), 400, "invalid action payload")
		return
	}

	var kind app.ActionKind
	switch req.Action {
	case string(app.ActionBet):
		kind = app.ActionBet
	case string(app.ActionPass):
		kind = app.ActionPass
	default:
		mh.sendError(s, dispatcher, logger, msg.GetUserId(), 400, "unknown action")
		return
	}

	events, err := s.App.ResolveTurn(s.Table, app.TurnTrigger{
		UserID: msg.GetUserId(),
		Action: kind,
		Amount: req.Amount,
	})
	if err != nil {
		logger.Debug("HandleAction: Ignoring %s from %s: %v", req.Action, msg.GetUserId(), err)
		return
	}
	mh.dispatchEvents(s, dispatcher, logger, events)
	mh.updateLabel(s, dispatcher, logger)
}

func (mh *matchHandler) handleChat(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("HandleChat: Invalid payload from %s: %v", msg.GetUserId(), err)
		return
	}

	events, err := s.App.Chat(s.Table, msg.GetUserId(), req.Msg)
	if err != nil {
		logger.Debug("HandleChat: Ignoring chat from %s: %v", msg.GetUserId(), err)
		return
	}
	mh.dispatchEvents(s, dispatcher, logger, events)
}

func (mh *matchHandler) handleResetGame(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	events, err := s.App.ResetGame(s.Table, msg.GetUserId())
	if err != nil {
		logger.Debug("ResetGame: Ignoring request from %s: %v", msg.GetUserId(), err)
		return
	}
	mh.dispatchEvents(s, dispatcher, logger, events)
	mh.updateLabel(s, dispatcher, logger)
}

// processTurnDeadline synthesizes a pass for the active seat when its
// deadline elapses, re-entering the same resolution path as a player message.
func (mh *matchHandler) processTurnDeadline(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if s.Table.Phase != domain.PhasePlaying || s.TurnExpiresTick == 0 || s.Tick < s.TurnExpiresTick {
		return
	}
	s.TurnExpiresTick = 0

	active := s.Table.ActiveSeat
	if active == domain.NoSeat || s.Table.Seats[active] == nil {
		return
	}
	userID := s.Table.Seats[active].UserID
	logger.Debug("TurnDeadline: Seat %d (%s) timed out, forcing pass.", active, userID)

	events, err := s.App.ResolveTurn(s.Table, app.TurnTrigger{UserID: userID, Action: app.ActionPass})
	if err != nil {
		logger.Debug("TurnDeadline: Stale deadline for %s: %v", userID, err)
		return
	}
	mh.dispatchEvents(s, dispatcher, logger, events)
	mh.updateLabel(s, dispatcher, logger)
}

// dispatchEvents broadcasts app events over the dispatcher and keeps the turn
// deadline in sync with any timer_start the batch carries.
func (mh *matchHandler) dispatchEvents(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		opCode, ok := opCodeForEvent(ev.Kind)
		if !ok {
			logger.Warn("Unknown event kind: %v", ev.Kind)
			continue
		}

		data, err := marshalEventPayload(ev)
		if err != nil {
			logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
			continue
		}

		// Targeted events go only to connected recipients; if none of the
		// intended recipients are connected the event must not leak to others.
		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, userID := range ev.Recipients {
				if p, ok := s.Presences[userID]; ok {
					recipients = append(recipients, p)
				}
			}
			if len(recipients) == 0 {
				continue
			}
		}

		if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil {
			logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
		}
	}

	mh.updateTurnDeadline(s, events)
}

// updateTurnDeadline arms the deadline from a timer_start event, or disarms it
// once no round is running.
func (mh *matchHandler) updateTurnDeadline(s *MatchState, events []app.Event) {
	for _, ev := range events {
		if ev.Kind != app.EventTimerStart {
			continue
		}
		if p, ok := ev.Payload.(app.TimerStartPayload); ok {
			s.TurnExpiresTick = s.Tick + int64(p.Duration)*tickRate
			return
		}
	}
	if s.Table.Phase != domain.PhasePlaying {
		s.TurnExpiresTick = 0
	}
}

// sendError sends a private error_msg event to one user.
func (mh *matchHandler) sendError(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	p, ok := s.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: presence not found", userID)
		return
	}

	data, err := json.Marshal(map[string]interface{}{"code": code, "text": message})
	if err != nil {
		logger.Error("Failed to marshal error payload: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpError, data, []runtime.Presence{p}, nil, true); err != nil {
		logger.Error("Failed to send error to %s: %v", userID, err)
	}
}

func (mh *matchHandler) updateLabel(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(domain.ComputeLabel(s.Table))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

// MatchTerminate runs on match shutdown; room state is in-memory only.
func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

// MatchSignal handles out-of-band signals; unused.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

func paramString(params map[string]interface{}, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func paramInt64(params map[string]interface{}, key string, fallback int64) int64 {
	switch v := params[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return fallback
	}
}
