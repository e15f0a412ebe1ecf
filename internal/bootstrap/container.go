package bootstrap

import (
	"log"
	"net/http"
	"time"

	"learnandtry-be/internal/config"
	"learnandtry-be/internal/controller"
	"learnandtry-be/internal/pkg/logger"
	"learnandtry-be/internal/service"
	"learnandtry-be/pkg/catalog"
	"learnandtry-be/pkg/dialog"
	"learnandtry-be/pkg/dialog/analysis"
	"learnandtry-be/pkg/embedding"
	"learnandtry-be/pkg/llm/ollama"
	"learnandtry-be/pkg/ranking"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Container struct {
	// Controllers
	ChatbotController controller.IChatbotController
	ToolsController   controller.IToolsController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	dialogLogger := newDialogLogger()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider := embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.EmbeddingModel,
	)
	log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)

	llmProvider := ollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel)
	llmProvider.Client.Timeout = time.Duration(cfg.Ai.TimeoutSeconds) * time.Second
	log.Printf("[INFO] Using LLM Provider: OLLAMA (%s)", cfg.Ai.LLMModel)

	probeOllama(cfg.Ai.OllamaBaseURL)

	// 4. Dialogue Core
	store := catalog.NewStore(cfg.Catalog.Path)
	analyzer := analysis.NewAnalyzer(llmProvider, dialogLogger)
	machine := dialog.NewMachine(analyzer, store, dialogLogger)
	ranker := ranking.NewRanker(embeddingProvider, dialogLogger)

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.TurnTopicName)

	auditLogger := logger.NewIsolatedLogger("logs/transcript.log")
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.TurnTopicName,
		auditLogger,
	)

	conversationService := service.NewConversationService(machine, publisherService, sysLogger)
	rankingService := service.NewRankingService(store, ranker, sysLogger)

	// 6. Controllers
	return &Container{
		ChatbotController: controller.NewChatbotController(conversationService),
		ToolsController:   controller.NewToolsController(rankingService),

		ConsumerService: consumerService,
	}
}

// newDialogLogger writes the per-turn dialogue trace to its own rotating file
// so the chat flow can be replayed without digging through the system log.
func newDialogLogger() *log.Logger {
	rotator := &lumberjack.Logger{
		Filename:   "logs/dialog.log",
		MaxSize:    10, // Megabytes
		MaxBackups: 5,
		MaxAge:     30, // Days
	}
	return log.New(rotator, "", log.LstdFlags)
}

// probeOllama checks the runtime is reachable at boot. A failed probe is not
// fatal: the dialogue degrades to clarifying questions and unsorted results.
func probeOllama(baseURL string) {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(baseURL + "/api/tags")
	if err != nil {
		color.Yellow("⚠ Ollama not reachable at %s: %v", baseURL, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		color.Yellow("⚠ Ollama responded with status %d at %s", resp.StatusCode, baseURL)
		return
	}
	color.Green("✓ Ollama reachable at %s", baseURL)
}
