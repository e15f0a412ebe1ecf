package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnandtry-be/internal/dto"
	"learnandtry-be/internal/pkg/logger"
	"learnandtry-be/pkg/catalog"
	"learnandtry-be/pkg/dialog"
	"learnandtry-be/pkg/dialog/analysis"
	"learnandtry-be/pkg/events"
	"learnandtry-be/pkg/llm"
)

type deadLLM struct{}

func (deadLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", errors.New("model offline")
}

func (deadLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("model offline")
}

type zeroCounter struct{}

func (zeroCounter) CountMatching(catalog.AppliedFilters) int { return 0 }

type recordingPublisher struct {
	published []events.Event
}

func (r *recordingPublisher) PublishTurn(event events.Event) error {
	r.published = append(r.published, event)
	return nil
}

func newConversationServiceForTest(t *testing.T, publisher IPublisherService) IConversationService {
	t.Helper()
	discard := discardStdLogger()
	machine := dialog.NewMachine(analysis.NewAnalyzer(deadLLM{}, discard), zeroCounter{}, discard)
	testLogger := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log"))
	return NewConversationService(machine, publisher, testLogger)
}

func TestAdvanceSeedsNewConversation(t *testing.T) {
	svc := newConversationServiceForTest(t, nil)

	res := svc.Advance(context.Background(), &dto.AdvanceConversationRequest{Message: ""})
	require.True(t, res.Success)
	require.NotNil(t, res.State)
	assert.Equal(t, dialog.StepWhoIsThisFor, res.State.Step)
	assert.True(t, strings.Contains(res.BotMessage, "Who are you searching for tools for?"))
	assert.False(t, res.ShowInterface)
}

func TestAdvanceRoundTripsState(t *testing.T) {
	svc := newConversationServiceForTest(t, nil)

	first := svc.Advance(context.Background(), &dto.AdvanceConversationRequest{Message: ""})
	second := svc.Advance(context.Background(), &dto.AdvanceConversationRequest{
		Message: "for my mom",
		State:   first.State,
	})

	require.True(t, second.Success)
	assert.Equal(t, dialog.StepDeviceAccessHome, second.State.Step)
	assert.Equal(t, "mother", second.State.Relationship)
	// transcript carries the user turn and both bot turns
	assert.Len(t, second.State.ConversationHistory, 3)
}

func TestAdvancePublishesTurnEvent(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := newConversationServiceForTest(t, publisher)

	svc.Advance(context.Background(), &dto.AdvanceConversationRequest{Message: ""})
	require.Len(t, publisher.published, 1)
	event := publisher.published[0]
	assert.Equal(t, events.ConversationTurnType, event.EventType())
	assert.Equal(t, string(dialog.StepWhoIsThisFor), event.Payload()["step"])
}
