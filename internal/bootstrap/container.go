package bootstrap

import (
	"context"
	"log"

	"pws-mentor-be/internal/config"
	"pws-mentor-be/internal/controller"
	"pws-mentor-be/internal/handler"
	"pws-mentor-be/internal/pkg/logger"
	"pws-mentor-be/internal/pkg/mailer"
	"pws-mentor-be/internal/pkg/sessionlock"
	"pws-mentor-be/internal/repository/memory"
	"pws-mentor-be/internal/repository/unitofwork"
	"pws-mentor-be/internal/service"
	"pws-mentor-be/internal/websocket"
	"pws-mentor-be/pkg/diagnosis"
	"pws-mentor-be/pkg/embedding"
	"pws-mentor-be/pkg/framework"
	"pws-mentor-be/pkg/llm/factory"
	"pws-mentor-be/pkg/retrieval"
	"pws-mentor-be/pkg/signal"

	pktNats "pws-mentor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController   controller.ISessionController
	TurnController      controller.ITurnController
	KnowledgeController controller.IKnowledgeController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ArchiverService service.IArchiverService

	// WebSockets
	EventHandler *handler.EventHandler
	WebSocketHub *websocket.Hub

	// Seed/tooling access
	KnowledgeService service.IKnowledgeService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory session state
	stateRepo := memory.NewSessionStateRepository()

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)

	var locker sessionlock.Locker
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-process turn locks", err)
		rdb = nil
		locker = sessionlock.NewLocalLocker()
	} else {
		locker = sessionlock.NewRedisLocker(rdb, cfg.Turn.LockTTL)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Pipeline Components
	catalog := framework.NewCatalog()
	detector := signal.NewDetector(signal.NewLLMClassifier(llmProvider), log.Default())
	aggregator := diagnosis.NewAggregator(log.Default())
	recommender := framework.NewRecommender(catalog, log.Default())
	retriever := retrieval.NewRetriever(
		service.NewQueryEmbedder(embeddingProvider),
		service.NewKnowledgeStore(uowFactory),
		catalog,
		log.Default(),
	)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.IngestionTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestionTopic,
		uowFactory,
		embeddingProvider,
	)
	knowledgeService := service.NewKnowledgeService(uowFactory, publisherService, sysLogger)

	conversationService := service.NewConversationService(
		uowFactory,
		detector,
		retriever,
		aggregator,
		recommender,
		catalog,
		llmProvider,
		natsPub,
		stateRepo,
		locker,
		sysLogger,
		cfg.Turn,
	)
	sessionService := service.NewSessionService(uowFactory, stateRepo, sysLogger)
	archiverService := service.NewArchiverService(
		uowFactory,
		stateRepo,
		natsPub,
		emailService,
		sysLogger,
		cfg.SMTP,
		cfg.Turn.ArchiveAfter,
	)

	// Event relay (NATS -> websocket)
	if natsSub != nil {
		relay := service.NewEventRelayService(natsSub, uowFactory, wsHub, wsLogger)
		if err := relay.Start(); err != nil {
			log.Printf("[WARN] Failed to start event relay: %v", err)
		}
	}

	eventHandler := handler.NewEventHandler(wsHub, wsLogger)

	// 6. Controllers
	return &Container{
		SessionController:   controller.NewSessionController(sessionService),
		TurnController:      controller.NewTurnController(conversationService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		ConsumerService:     consumerService,
		ArchiverService:     archiverService,
		EventHandler:        eventHandler,
		WebSocketHub:        wsHub,
		KnowledgeService:    knowledgeService,
	}
}
