package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"learnandtry-be/pkg/catalog"
	"learnandtry-be/pkg/llm"
)

// DeviceAction is the closed variant returned by device analysis. Any
// unexpected model output collapses to DeviceAskClarification, matching the
// fail-open behavior the dialogue relies on.
type DeviceAction string

const (
	DeviceAskClarification DeviceAction = "ask_clarification"
	DeviceExtract          DeviceAction = "extract_devices"
	DeviceNone             DeviceAction = "no_devices"
)

// DeviceAnalysis is the structured result of the device fallback prompt.
type DeviceAnalysis struct {
	Action             DeviceAction `json:"action"`
	BotMessage         string       `json:"bot_message"`
	ExtractedPlatforms []string     `json:"extracted_platforms"`
}

// CategoryAnalysis is the structured result of the disability-category
// prompt. Ambiguous is a pointer so that a missing field is treated as
// ambiguous rather than as confidence.
type CategoryAnalysis struct {
	UpdatedSummary string   `json:"updated_summary"`
	Ambiguous      *bool    `json:"ambiguous"`
	Categories     []string `json:"categories"`
	Question       string   `json:"question"`
}

// Resolved reports whether the model was fully confident: ambiguous
// explicitly false and at least one category named.
func (a CategoryAnalysis) Resolved() bool {
	return a.Ambiguous != nil && !*a.Ambiguous && len(a.Categories) > 0
}

const historyWindow = 6

// Analyzer is the boundary to the external reasoning service. Prompts embed a
// strict JSON response schema; responses are decoded from the first {...}
// span and every decode failure degrades to a clarifying question instead of
// an error.
type Analyzer struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewAnalyzer(llmProvider llm.LLMProvider, logger *log.Logger) *Analyzer {
	return &Analyzer{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// AnalyzeDevices asks the model to resolve a device utterance the keyword
// pass could not. Platforms in the reply are sanitized against the canonical
// vocabulary before they reach conversation state.
func (a *Analyzer) AnalyzeDevices(ctx context.Context, utterance, targetPerson string) DeviceAnalysis {
	fallback := DeviceAnalysis{
		Action:     DeviceAskClarification,
		BotMessage: "Could you tell me more about your devices?",
	}

	prompt := buildDevicePrompt(utterance, targetPerson)
	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		a.logger.Printf("[ERROR] Device analysis failed: %v", err)
		return fallback
	}

	var result DeviceAnalysis
	if err := decodeJSON(response, &result); err != nil {
		a.logger.Printf("[WARN] Device analysis parse failed, asking clarification: %v", err)
		return fallback
	}

	switch result.Action {
	case DeviceExtract, DeviceNone:
	default:
		result.Action = DeviceAskClarification
	}
	if result.BotMessage == "" {
		result.BotMessage = fallback.BotMessage
	}
	result.ExtractedPlatforms = catalog.NormalizeTokens(result.ExtractedPlatforms, catalog.KnownPlatforms)
	if result.Action == DeviceExtract && len(result.ExtractedPlatforms) == 0 {
		result.Action = DeviceAskClarification
	}

	a.logger.Printf("[DEVICE] Resolved action=%s platforms=%v", result.Action, result.ExtractedPlatforms)
	return result
}

// AnalyzeCategories asks the model to map the problem description onto the
// canonical function categories, with the recent conversation as context. A
// failed call or unparseable reply comes back ambiguous with no question so
// the dialogue falls back to its default clarifier.
func (a *Analyzer) AnalyzeCategories(ctx context.Context, utterance, targetPerson string, history []llm.Message, refining bool) CategoryAnalysis {
	prompt := buildCategoryPrompt(utterance, targetPerson, history, refining)
	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		a.logger.Printf("[ERROR] Category analysis failed: %v", err)
		return CategoryAnalysis{}
	}

	var result CategoryAnalysis
	if err := decodeJSON(response, &result); err != nil {
		a.logger.Printf("[WARN] Category analysis parse failed: %v", err)
		return CategoryAnalysis{}
	}

	result.Categories = catalog.NormalizeTokens(result.Categories, catalog.KnownFunctions)
	a.logger.Printf("[CATEGORY] Resolved resolved=%v categories=%v", result.Resolved(), result.Categories)
	return result
}

func buildDevicePrompt(utterance, targetPerson string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "User: %q\n\n", utterance)
	if targetPerson == "you" {
		b.WriteString("Task: Determine available devices. If unclear devices mentioned (smartphone, laptop, computer without OS), ask for clarification. Never assume laptop/computer OS.\n\n")
		b.WriteString("If they said they have no devices, proceed without platform filters.\n\n")
	} else {
		fmt.Fprintf(&b, "Task: Determine available devices for %s. If unclear devices mentioned, ask for clarification. Never assume laptop/computer OS.\n\n", targetPerson)
		fmt.Fprintf(&b, "If they said %s has no devices, proceed without platform filters.\n\n", targetPerson)
	}
	b.WriteString("If \"windows and mac\" mentioned, they have multiple devices with different OS.\n\n")

	b.WriteString("Device mappings:\n")
	b.WriteString("- iPhone -> ios\n")
	b.WriteString("- Android phone/tablet -> android\n")
	b.WriteString("- iPad -> ipados\n")
	b.WriteString("- Windows computer/laptop/PC -> windows\n")
	b.WriteString("- Mac computer/laptop -> macos\n")
	b.WriteString("- Chromebook -> chromeos\n\n")

	b.WriteString("Respond with ONLY JSON:\n")
	b.WriteString("{\n")
	b.WriteString("  \"action\": \"ask_clarification\" or \"extract_devices\" or \"no_devices\",\n")
	b.WriteString("  \"bot_message\": \"your response to user\",\n")
	b.WriteString("  \"extracted_platforms\": [\"windows\", \"ios\", etc] (only if action is extract_devices)\n")
	b.WriteString("}\n\n")

	b.WriteString("Examples:\n")
	b.WriteString("- \"smartphone and laptop\" -> ask_clarification\n")
	b.WriteString("- \"iPhone and Windows laptop\" -> extract_devices: [\"ios\", \"windows\"]\n")
	b.WriteString("- \"no devices\" -> no_devices\n")

	return b.String()
}

func buildCategoryPrompt(utterance, targetPerson string, history []llm.Message, refining bool) string {
	var b strings.Builder

	b.WriteString("Recent conversation (most recent last):\n")
	b.WriteString(historyText(history))
	b.WriteString("\n\n")

	if targetPerson == "you" {
		fmt.Fprintf(&b, "Current message: %q\n\n", utterance)
	} else {
		fmt.Fprintf(&b, "Current message about %s: %q\n\n", targetPerson, utterance)
	}

	subject := ""
	if targetPerson != "you" {
		subject = " for " + targetPerson
	}
	if refining {
		fmt.Fprintf(&b, "Task: Refine the problem summary%s and check if you are HIGHLY CONFIDENT about ALL relevant categories. Only set ambiguous=false if you are 100%% certain about every category AND certain no other categories might apply. If uncertain about any category, ask ONE helpful clarifying question (or explain your question if they asked \"what do you mean?\").\n", subject)
	} else {
		fmt.Fprintf(&b, "Task: Maintain and refine a concise problem summary%s and determine if you are HIGHLY CONFIDENT about ALL relevant categories. Only set ambiguous=false if you are 100%% certain about every category you list AND certain no other categories might apply.\n", subject)
	}
	b.WriteString("Categories to choose from: reading, cognitive, vision, physical, hearing, speech\n\n")

	b.WriteString("Return ONLY JSON:\n")
	b.WriteString("{\n")
	b.WriteString("  \"updated_summary\": \"one sentence summary of the actual problem\",\n")
	b.WriteString("  \"ambiguous\": true or false,\n")
	b.WriteString("  \"categories\": [\"only categories you are 100% confident about\"],\n")
	b.WriteString("  \"question\": \"one short clarifying question if ambiguous else empty\"\n")
	b.WriteString("}\n")

	return b.String()
}

// historyText renders the last entries of the conversation, one sanitized and
// truncated line per message.
func historyText(history []llm.Message) string {
	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}

	var lines []string
	for _, msg := range history[start:] {
		content := SanitizeText(msg.Content)
		if len(content) > 120 {
			content = content[:120]
		}
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, content))
	}
	return strings.Join(lines, "\n")
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeText collapses whitespace runs and escapes double quotes so user
// text can be embedded in prompts and message fields safely.
func SanitizeText(text string) string {
	cleaned := strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	return strings.ReplaceAll(cleaned, `"`, `\"`)
}

// decodeJSON locates the first {...} span in the raw model response and
// unmarshals it. Absence of a JSON object is an error, never a panic.
func decodeJSON(response string, out interface{}) error {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return fmt.Errorf("no JSON found in response")
	}
	return json.Unmarshal([]byte(response[startIdx:endIdx+1]), out)
}
