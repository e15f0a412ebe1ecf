package events

import (
	"time"

	"github.com/google/uuid"
)

const ConversationTurnType = "CONVERSATION_TURN"

// NewConversationTurn captures one completed dialogue exchange for the audit
// stream: the step that handled it, both messages, and the UI flags the
// response carried.
func NewConversationTurn(step, userMessage, botMessage string, showInterface, requestSorting bool) Event {
	return BaseEvent{
		Type: ConversationTurnType,
		Data: map[string]interface{}{
			"event_id":        uuid.NewString(),
			"step":            step,
			"user_message":    userMessage,
			"bot_message":     botMessage,
			"show_interface":  showInterface,
			"request_sorting": requestSorting,
		},
		OccurredAt: time.Now(),
	}
}
