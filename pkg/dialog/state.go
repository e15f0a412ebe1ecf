package dialog

import (
	"learnandtry-be/pkg/catalog"
	"learnandtry-be/pkg/llm"
)

// Step identifies the current position in the guided conversation.
type Step string

const (
	StepWhoIsThisFor       Step = "who_is_this_for"
	StepDeviceAccessHome   Step = "device_access_home"
	StepProblemDescription Step = "problem_description"
	StepClarifyDisability  Step = "clarify_disability"
	StepShowResults        Step = "show_results"
)

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// HistoryEntry is one line of the conversation transcript.
type HistoryEntry struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// State is the single mutable aggregate for one conversation. The caller
// round-trips it on every turn; the server holds no session store, so
// concurrent conversations are isolated by construction.
type State struct {
	Step                 Step                   `json:"step"`
	TargetPerson         string                 `json:"target_person"`
	Relationship         string                 `json:"relationship,omitempty"`
	Devices              map[string]bool        `json:"devices"`
	PartialDevices       []string               `json:"partial_devices,omitempty"`
	ProblemDescription   string                 `json:"problem_description"`
	ProblemSummary       string                 `json:"problem_summary,omitempty"`
	DisabilityCategories []string               `json:"disability_categories"`
	AppliedFilters       catalog.AppliedFilters `json:"applied_filters"`
	ConversationHistory  []HistoryEntry         `json:"conversation_history"`
}

// NewState seeds a fresh conversation at the opening step.
func NewState() *State {
	return &State{
		Step:                 StepWhoIsThisFor,
		TargetPerson:         "you",
		Devices:              map[string]bool{},
		DisabilityCategories: []string{},
		AppliedFilters: catalog.AppliedFilters{
			Platforms:       []string{},
			Functions:       []string{},
			InstallTypes:    []string{},
			PurchaseOptions: []string{},
		},
		ConversationHistory: []HistoryEntry{},
	}
}

// AppendUser records a user utterance in the transcript.
func (s *State) AppendUser(message string) {
	s.ConversationHistory = append(s.ConversationHistory, HistoryEntry{Role: RoleUser, Message: message})
}

// AppendBot records a bot reply in the transcript. Every handler appends
// exactly one bot entry per turn.
func (s *State) AppendBot(message string) {
	s.ConversationHistory = append(s.ConversationHistory, HistoryEntry{Role: RoleBot, Message: message})
}

// historyMessages converts the transcript for use as model context.
func (s *State) historyMessages() []llm.Message {
	msgs := make([]llm.Message, len(s.ConversationHistory))
	for i, h := range s.ConversationHistory {
		msgs[i] = llm.Message{Role: h.Role, Content: h.Message}
	}
	return msgs
}
