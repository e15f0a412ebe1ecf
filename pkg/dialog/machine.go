package dialog

import (
	"context"
	"log"
	"strings"

	"learnandtry-be/pkg/catalog"
	"learnandtry-be/pkg/dialog/analysis"
	"learnandtry-be/pkg/dialog/extract"
)

const maxSummaryLength = 180

// ResultCounter reports how many catalog items survive the current filters.
// Implemented by the catalog store; a failing catalog degrades to zero.
type ResultCounter interface {
	CountMatching(filters catalog.AppliedFilters) int
}

// TurnOutput is the result of processing one conversation turn.
type TurnOutput struct {
	BotMessage     string
	State          *State
	ShowInterface  bool
	RequestSorting bool
}

// Machine drives the guided conversation. Advance is a pure transition over
// the round-tripped state plus the user utterance; the only side effects are
// outbound calls to the reasoning adapter on the fallback paths.
type Machine struct {
	analyzer *analysis.Analyzer
	counter  ResultCounter
	logger   *log.Logger
}

func NewMachine(analyzer *analysis.Analyzer, counter ResultCounter, logger *log.Logger) *Machine {
	return &Machine{
		analyzer: analyzer,
		counter:  counter,
		logger:   logger,
	}
}

// Advance dispatches on the current step. The user utterance must already be
// appended to the transcript by the caller; every handler appends exactly one
// bot entry.
func (m *Machine) Advance(ctx context.Context, message string, state *State) *TurnOutput {
	switch state.Step {
	case StepWhoIsThisFor:
		return m.handleWho(message, state)
	case StepDeviceAccessHome:
		return m.handleDevices(ctx, message, state)
	case StepProblemDescription:
		return m.handleProblem(ctx, message, state)
	case StepClarifyDisability:
		return m.handleClarify(ctx, message, state)
	case StepShowResults:
		return m.handleShowResults(state)
	default:
		// Unknown step value in a round-tripped state: reset instead of failing.
		m.logger.Printf("[WARN] Unknown conversation step %q, resetting", state.Step)
		state.Step = StepWhoIsThisFor
		return m.handleWho(message, state)
	}
}

func (m *Machine) handleWho(message string, state *State) *TurnOutput {
	if strings.TrimSpace(message) == "" || len(state.ConversationHistory) <= 1 {
		return m.reply(state, openingQuestion(), false, false)
	}

	res := extract.ExtractWho(message)
	if !res.Confident {
		// Low confidence re-asks; this intent never goes to the model.
		return m.reply(state, whoClarification(), false, false)
	}

	switch res.Action {
	case extract.WhoForSelf, extract.WhoRelationship:
		state.TargetPerson = res.TargetPerson
		state.Relationship = res.Relationship
	case extract.WhoSomeoneElse:
		// Privacy-preserving: no follow-up question about who they are.
		state.TargetPerson = "the person you are searching for"
		state.Relationship = "someone else"
	}
	state.Step = StepDeviceAccessHome

	return m.reply(state, deviceQuestion(state), false, false)
}

func (m *Machine) handleDevices(ctx context.Context, message string, state *State) *TurnOutput {
	if strings.TrimSpace(message) == "" {
		return m.reply(state, deviceQuestion(state), false, false)
	}

	res := extract.ExtractDevices(message, state.PartialDevices)
	if res.Confident {
		// The cached partials are consumed by the extraction either way.
		state.PartialDevices = nil

		switch {
		case res.NoDevices:
			state.Step = StepProblemDescription
			return m.reply(state, noDevicesMessage(state.TargetPerson), false, false)

		case len(res.Unclear) == 0:
			state.Devices = platformMap(res.Platforms)
			state.AppliedFilters.Platforms = res.Platforms
			state.Step = StepProblemDescription
			return m.reply(state, problemQuestion(state.TargetPerson), true, false)

		default:
			// Stash what did resolve so the clarifying answer can merge it.
			state.PartialDevices = res.Platforms
			return m.reply(state, deviceClarification(state.TargetPerson, res.Unclear), false, false)
		}
	}

	// No confident keyword signal at all: escalate to the reasoning adapter.
	an := m.analyzer.AnalyzeDevices(ctx, message, state.TargetPerson)
	showInterface := false
	switch an.Action {
	case analysis.DeviceExtract:
		state.Devices = platformMap(an.ExtractedPlatforms)
		state.AppliedFilters.Platforms = an.ExtractedPlatforms
		state.Step = StepProblemDescription
		showInterface = len(an.ExtractedPlatforms) > 0
	case analysis.DeviceNone:
		state.Step = StepProblemDescription
	}
	return m.reply(state, an.BotMessage, showInterface, false)
}

func (m *Machine) handleProblem(ctx context.Context, message string, state *State) *TurnOutput {
	state.ProblemDescription = message
	if state.ProblemSummary == "" {
		state.ProblemSummary = summarizeProblem(message)
	}

	an := m.analyzer.AnalyzeCategories(ctx, message, state.TargetPerson, state.historyMessages(), false)
	return m.applyCategoryAnalysis(an, state)
}

func (m *Machine) handleClarify(ctx context.Context, message string, state *State) *TurnOutput {
	an := m.analyzer.AnalyzeCategories(ctx, message, state.TargetPerson, state.historyMessages(), true)

	// The clarifying answer extends the problem context rather than replacing it.
	state.ProblemDescription = "Original problem: " + state.ProblemDescription +
		"\nAdditional details: " + message

	return m.applyCategoryAnalysis(an, state)
}

func (m *Machine) applyCategoryAnalysis(an analysis.CategoryAnalysis, state *State) *TurnOutput {
	if summary := strings.TrimSpace(an.UpdatedSummary); summary != "" {
		state.ProblemSummary = summarizeProblem(summary)
	}

	if an.Resolved() {
		state.Step = StepShowResults
		state.DisabilityCategories = an.Categories
		state.AppliedFilters.Functions = an.Categories
		bot := finalResultsMessage(m.counter.CountMatching(state.AppliedFilters))
		return m.reply(state, bot, true, true)
	}

	state.Step = StepClarifyDisability
	question := an.Question
	if question == "" {
		question = defaultClarifyQuestion()
	}
	return m.reply(state, question, false, false)
}

func (m *Machine) handleShowResults(state *State) *TurnOutput {
	// Absorbing state: every further turn re-issues the ranking request.
	bot := finalResultsMessage(m.counter.CountMatching(state.AppliedFilters))
	return m.reply(state, bot, true, true)
}

func (m *Machine) reply(state *State, botMessage string, showInterface, requestSorting bool) *TurnOutput {
	state.AppendBot(botMessage)
	return &TurnOutput{
		BotMessage:     botMessage,
		State:          state,
		ShowInterface:  showInterface,
		RequestSorting: requestSorting,
	}
}

func platformMap(platforms []string) map[string]bool {
	devices := make(map[string]bool, len(platforms))
	for _, p := range platforms {
		devices[p] = true
	}
	return devices
}

// summarizeProblem keeps a sanitized, bounded summary for UI and sorting text.
func summarizeProblem(text string) string {
	cleaned := analysis.SanitizeText(text)
	if len(cleaned) > maxSummaryLength {
		cleaned = cleaned[:maxSummaryLength-3] + "..."
	}
	return cleaned
}
