package cli

import (
	"log"
	"net/http"
	"time"

	"github.com/ytbrain/ytbrain/internal/cache"
	"github.com/ytbrain/ytbrain/internal/config"
	"github.com/ytbrain/ytbrain/internal/groq"
	"github.com/ytbrain/ytbrain/internal/index"
	"github.com/ytbrain/ytbrain/internal/service"
	"github.com/ytbrain/ytbrain/internal/youtube"
)

// App bundles the wired core services for the CLI commands.
type App struct {
	Config    *config.Config
	Ingest    *service.IngestService
	Retrieval *service.RetrievalService
	Summary   *service.SummaryService
}

// buildApp constructs the full pipeline from configuration: cache, vector
// store, acquisition chain, and the services over them.
func buildApp(cfg *config.Config) *App {
	store := cache.New(cfg.ArtifactTTL, 10*time.Minute)
	vectors := index.NewStore()
	models := index.NewRegistry()

	httpClient := &http.Client{Timeout: 15 * time.Second}
	captions := youtube.NewCaptionClient(httpClient)
	metadata := youtube.NewMetadataFetcher(httpClient, captions)

	orchestrator := youtube.NewOrchestrator([]youtube.Strategy{
		captions,
		youtube.NewSubtitleExtractor(cfg.YtdlpPath),
		youtube.NewMetadataFallback(metadata),
	}, cfg.StrategyTimeout)

	ingestCfg := service.IngestConfig{
		Chunking: service.ChunkConfig{
			TargetWords:  cfg.TargetWords,
			OverlapWords: cfg.OverlapWords,
			MaxChunks:    cfg.MaxChunks,
		},
		MaxFeatures: index.DefaultMaxFeatures,
		ArtifactTTL: cfg.ArtifactTTL,
		StatusTTL:   cfg.StatusTTL,
	}

	retrievalCfg := service.RetrievalConfig{
		DesiredCount:      cfg.DesiredChunks,
		MinResults:        cfg.MinTierResults,
		ContextCharBudget: cfg.ContextCharBudget,
	}

	app := &App{
		Config:    cfg,
		Ingest:    service.NewIngestService(orchestrator, metadata, store, vectors, models, ingestCfg),
		Retrieval: service.NewRetrievalService(store, vectors, models, retrievalCfg),
	}

	if cfg.HasGroq() {
		client, err := groq.NewClient(groq.Config{
			APIKey:  cfg.GroqAPIKey,
			Model:   cfg.GroqModel,
			BaseURL: cfg.GroqBaseURL,
		})
		if err != nil {
			log.Printf("groq client unavailable, summaries disabled: %v", err)
		} else {
			app.Summary = service.NewSummaryService(store, client, cfg.ArtifactTTL)
		}
	}

	return app
}
