package bootstrap

import (
	"context"
	"encoding/json"
	"log"
	"path/filepath"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/backend"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/canvas"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/config"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/constant"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/controller"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/dto"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/pkg/logger"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/repository/contract"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/repository/implementation"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/repository/memory"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/service"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/session"
)

type Container struct {
	// Controllers
	BoardController   controller.IBoardController
	LibraryController controller.ILibraryController
	SessionController controller.ISessionController

	// Background Services (Exposed for main.go to run)
	SyncService     service.ISyncService
	AutosaveService service.IAutosaveService
	CatalogService  service.ICatalogService

	// Canvas channel
	CanvasHub *canvas.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	sess := session.New(
		cfg.Board.ProjectId,
		cfg.Board.BoardId,
		cfg.Board.BackendURL,
		cfg.Board.Mode,
		cfg.Board.Theme,
		cfg.Board.Zen,
		cfg.Board.Grid,
		cfg.Board.Controls,
	)

	// 2. Local Storage
	// Disk failures are not fatal: the in-memory store becomes the fallback
	// of record and the catalog simply stops surviving restarts.
	var localStore contract.ILocalStore
	fileStore, err := implementation.NewFileStore(cfg.Store.DataDir)
	if err != nil {
		log.Printf("[WARN] Local store unavailable, falling back to memory: %v", err)
		localStore = implementation.NewMemoryStore()
	} else {
		localStore = fileStore
	}

	stateRepo := memory.NewStateRepository()

	// 3. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3.5 Infrastructure
	// Redis (optional cross-instance canvas command relay)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// Canvas Hub
	wsLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "canvas.log"))
	hub := canvas.NewHub(rdb, wsLogger)
	go hub.Run()

	// Backend
	backendClient := backend.NewClient(sess.APIBase)

	// 4. Services
	scenePublisher := service.NewPublisherService(constant.TopicSceneChanged, pubSub)
	libraryPublisher := service.NewPublisherService(constant.TopicLibraryChanged, pubSub)

	syncService := service.NewSyncService(sess, backendClient, hub, stateRepo, sysLogger)
	autosaveService := service.NewAutosaveService(sess, backendClient, stateRepo, pubSub, constant.TopicSceneChanged, sysLogger)

	curationService := service.NewCurationService(localStore, sysLogger)
	curationService.Load()

	catalogService := service.NewCatalogService(localStore, curationService, hub, pubSub, constant.TopicLibraryChanged, sysLogger)
	catalogService.Load()

	// 5. Canvas collaborator callbacks
	hub.OnReady = func(clientId uuid.UUID) {
		syncService.SetCanvasReady()
		// A startup catalog load may have happened before any canvas was
		// connected; deliver the deferred push now.
		catalogService.PushToCanvas()
	}
	hub.OnSceneChange = func(msg dto.SceneChangedMessage) {
		payload, err := json.Marshal(msg)
		if err != nil {
			return
		}
		if err := scenePublisher.Publish(context.Background(), payload); err != nil {
			sysLogger.Warn("Container", "Scene change publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
	hub.OnLibraryChange = func(items []json.RawMessage) {
		payload, err := json.Marshal(dto.LibraryChangePayload{Items: items})
		if err != nil {
			return
		}
		if err := libraryPublisher.Publish(context.Background(), payload); err != nil {
			sysLogger.Warn("Container", "Library change publish failed", map[string]interface{}{"error": err.Error()})
		}
	}

	// 6. Controllers
	return &Container{
		BoardController:   controller.NewBoardController(sess, syncService, autosaveService, cfg.App.OwnerSecret),
		LibraryController: controller.NewLibraryController(sess, catalogService, curationService, cfg.App.OwnerSecret),
		SessionController: controller.NewSessionController(sess),

		SyncService:     syncService,
		AutosaveService: autosaveService,
		CatalogService:  catalogService,

		CanvasHub: hub,
	}
}
