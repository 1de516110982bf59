package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"medbot/internal/config"
	"medbot/internal/db"
	"medbot/internal/handlers"
	"medbot/internal/repositories"
	"medbot/internal/routes"
	"medbot/internal/services"
)

// NewServer wires dependencies and returns a configured HTTP server
func NewServer(cfg *config.Config) *http.Server {
	logger := newLogger("[SERVER] ")

	genai := services.NewGenAIClient(services.GenAIConfig{
		APIKey:         cfg.GoogleAPIKey,
		LLMModel:       cfg.LLMModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Temperature:    cfg.LLMTemperature,
	})

	chromaClient := db.NewChromaDBClient(db.ChromaDBConfig{
		Host:     cfg.ChromaHost,
		Port:     cfg.ChromaPort,
		Tenant:   cfg.ChromaTenant,
		Database: cfg.ChromaDatabase,
		Timeout:  cfg.ChromaTimeout,
	})
	vectorRepo := repositories.NewChromaVectorRepository(chromaClient)

	redisClient := db.NewRedisClient(db.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		PoolSize: cfg.RedisPoolSize,
	})
	docRepo := repositories.NewRedisDocumentRepository(redisClient.GetClient())

	// Connectivity problems are logged, not fatal: health reports them
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := chromaClient.Heartbeat(ctx); err != nil {
		logger.Printf("ChromaDB not reachable at startup: %v", err)
	}
	if err := redisClient.Ping(ctx); err != nil {
		logger.Printf("Redis not reachable at startup: %v", err)
	}

	processor := services.NewDocumentProcessor(cfg.ChunkSize, cfg.ChunkOverlap)
	qaService := services.NewQAService(genai, vectorRepo, cfg.ChromaCollection, cfg.LLMModel, newLogger("[QA] "))
	docService := services.NewDocumentService(genai, vectorRepo, docRepo, processor,
		cfg.ChromaCollection, cfg.MaxDocuments, newLogger("[DOCS] "))

	h := &routes.Handlers{
		Query:    handlers.NewQueryHandler(qaService, newLogger("[QUERY] ")),
		Document: handlers.NewDocumentHandler(docService, newLogger("[DOCS] ")),
		Health: handlers.NewHealthHandler(&statusReporter{qa: qaService, docs: docService},
			cfg.AppVersion, newLogger("[HEALTH] ")),
		Home: handlers.NewHomeHandler(cfg.AppName, cfg.AppVersion, newLogger("[HOME] ")),
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, h)

	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	return &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: corsMiddleware(router, cfg.GetAllowedOrigins()),
	}
}

// statusReporter adapts the services to the health handler
type statusReporter struct {
	qa   *services.QAService
	docs *services.DocumentService
}

func (s *statusReporter) QAStatus(ctx context.Context) string {
	return s.qa.HealthCheck(ctx)
}

func (s *statusReporter) VectorStoreStatus(ctx context.Context) string {
	return s.docs.VectorStoreStatus(ctx)
}

func (s *statusReporter) RegistryStatus(ctx context.Context) string {
	return s.docs.RegistryStatus(ctx)
}
