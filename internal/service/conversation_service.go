package service

import (
	"context"

	"learnandtry-be/internal/dto"
	"learnandtry-be/internal/pkg/logger"
	"learnandtry-be/pkg/dialog"
	"learnandtry-be/pkg/events"
)

type IConversationService interface {
	Advance(ctx context.Context, req *dto.AdvanceConversationRequest) *dto.AdvanceConversationResponse
}

type conversationService struct {
	machine   *dialog.Machine
	publisher IPublisherService
	logger    logger.ILogger
}

func NewConversationService(
	machine *dialog.Machine,
	publisher IPublisherService,
	logger logger.ILogger,
) IConversationService {
	return &conversationService{
		machine:   machine,
		publisher: publisher,
		logger:    logger,
	}
}

// Advance runs one dialogue turn. The service never fails a turn: the machine
// degrades internally (clarifying questions, fallback messages), so the
// response always carries success=true and the updated state.
func (s *conversationService) Advance(ctx context.Context, req *dto.AdvanceConversationRequest) *dto.AdvanceConversationResponse {
	state := req.State
	if state == nil {
		state = dialog.NewState()
	}

	// An empty message only fetches the current question, so it is not part
	// of the transcript.
	if req.Message != "" {
		state.AppendUser(req.Message)
	}

	out := s.machine.Advance(ctx, req.Message, state)

	s.logger.Info("CONVERSATION", "Turn processed", map[string]interface{}{
		"step":            string(out.State.Step),
		"show_interface":  out.ShowInterface,
		"request_sorting": out.RequestSorting,
	})

	if s.publisher != nil {
		event := events.NewConversationTurn(
			string(out.State.Step), req.Message, out.BotMessage,
			out.ShowInterface, out.RequestSorting,
		)
		if err := s.publisher.PublishTurn(event); err != nil {
			s.logger.Warn("CONVERSATION", "Failed to publish turn event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.AdvanceConversationResponse{
		BotMessage:     out.BotMessage,
		State:          out.State,
		ShowInterface:  out.ShowInterface,
		RequestSorting: out.RequestSorting,
		Success:        true,
	}
}
