package dto

import "learnandtry-be/pkg/dialog"

// AdvanceConversationRequest is one user turn. State is the full conversation
// state round-tripped from the previous response; nil means a brand new
// conversation.
type AdvanceConversationRequest struct {
	Message string        `json:"message" validate:"max=2000"`
	State   *dialog.State `json:"state,omitempty"`
}

type AdvanceConversationResponse struct {
	BotMessage     string        `json:"bot_message"`
	State          *dialog.State `json:"state"`
	ShowInterface  bool          `json:"show_interface"`
	RequestSorting bool          `json:"request_sorting,omitempty"`
	Success        bool          `json:"success"`
	Error          string        `json:"error,omitempty"`
}
