package nakama

import (
	"encoding/json"
	"fmt"

	"drawbetween/internal/app"
)

var eventOpCodes = map[app.EventKind]int64{
	app.EventWelcome:      OpWelcome,
	app.EventTableUpdate:  OpTableUpdate,
	app.EventHandDealt:    OpNewHandDealt,
	app.EventTimerStart:   OpTimerStart,
	app.EventTurnResolved: OpTurnResolved,
	app.EventGameEnded:    OpGameEnded,
	app.EventBankrupt:     OpBankrupt,
	app.EventGameReset:    OpGameReset,
	app.EventChat:         OpChatReceived,
	app.EventNotification: OpNotification,
}

// opCodeForEvent maps an app event kind to its wire opcode.
func opCodeForEvent(kind app.EventKind) (int64, bool) {
	op, ok := eventOpCodes[kind]
	return op, ok
}

// marshalEventPayload renders an event payload as its JSON wire form. Events
// without a payload body (bankruptcy notices, resets) marshal to an empty object.
func marshalEventPayload(ev app.Event) ([]byte, error) {
	if ev.Payload == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", ev.Kind, err)
	}
	return data, nil
}
