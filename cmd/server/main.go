package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/realty/chunker"
	"github.com/w-h-a/realty/embedder"
	googleembedder "github.com/w-h-a/realty/embedder/google"
	openaiembedder "github.com/w-h-a/realty/embedder/openai"
	"github.com/w-h-a/realty/fetcher"
	httpfetcher "github.com/w-h-a/realty/fetcher/http"
	"github.com/w-h-a/realty/generator"
	anthropicgenerator "github.com/w-h-a/realty/generator/anthropic"
	openaigenerator "github.com/w-h-a/realty/generator/openai"
	"github.com/w-h-a/realty/indexer"
	memoryindexer "github.com/w-h-a/realty/indexer/memory"
	pineconeindexer "github.com/w-h-a/realty/indexer/pinecone"
	postgresindexer "github.com/w-h-a/realty/indexer/postgres"
	qdrantindexer "github.com/w-h-a/realty/indexer/qdrant"
	"github.com/w-h-a/realty/internal/async"
	"github.com/w-h-a/realty/internal/handler"
	"github.com/w-h-a/realty/internal/service/chat"
	"github.com/w-h-a/realty/internal/service/ingest"
	"github.com/w-h-a/realty/internal/service/source"
	"github.com/w-h-a/realty/registry"
	fileregistry "github.com/w-h-a/realty/registry/file"
	sqliteregistry "github.com/w-h-a/realty/registry/sqlite"
	"github.com/w-h-a/realty/retriever"
	"github.com/w-h-a/realty/server"
	httpserver "github.com/w-h-a/realty/server/http"
)

var (
	cfg struct {
		// Server config
		Address string   `help:"Address to serve the API on" default:":8000"`
		Origins []string `help:"Allowed CORS origins" default:"http://localhost:3000,http://localhost:5173"`

		// Registry config
		Registry         string `help:"Registry backend" enum:"file,sqlite" default:"file"`
		RegistryLocation string `help:"Registry file or database path" default:"data/data_sources.json"`
		AllowedHost      string `help:"Host substring source URLs must contain" default:"raw.githubusercontent.com"`

		// Embedder config
		Embedder       string `help:"Embedding provider" enum:"openai,google" default:"openai"`
		EmbeddingModel string `help:"Model identifier for vector embeddings" default:"text-embedding-3-small"`

		// Generator config
		Generator   string  `help:"Chat completion provider" enum:"openai,anthropic" default:"openai"`
		ChatModel   string  `help:"Model identifier for chat completions" default:"gpt-4o-mini"`
		Temperature float32 `help:"Sampling temperature for chat completions" default:"0.7"`

		// Provider credentials
		OpenAIKey    string `help:"OpenAI API key" env:"OPENAI_API_KEY" default:""`
		GoogleKey    string `help:"Google API key" env:"GOOGLE_API_KEY" default:""`
		AnthropicKey string `help:"Anthropic API key" env:"ANTHROPIC_API_KEY" default:""`
		PineconeKey  string `help:"Pinecone API key" env:"PINECONE_API_KEY" default:""`
		QdrantKey    string `help:"Qdrant API key" env:"QDRANT_API_KEY" default:""`

		// Index config
		Index         string `help:"Vector index provider" enum:"pinecone,qdrant,postgres,memory" default:"pinecone"`
		IndexName     string `help:"Name of the vector index" default:"real-estate-properties"`
		IndexLocation string `help:"Index endpoint (qdrant URL or postgres DSN)" default:""`
		Dimension     int    `help:"Embedding dimension" default:"1536"`
		Cloud         string `help:"Cloud hint for serverless indexes" default:"aws"`
		Region        string `help:"Region hint for serverless indexes" default:"us-east-1"`

		// Pipeline config
		ChunkSize    int `help:"Chunk size in tokens" default:"500"`
		ChunkOverlap int `help:"Chunk overlap in tokens" default:"50"`
		TopK         int `help:"Number of snippets retrieved per query" default:"5"`
		Concurrency  int `help:"Concurrent sources per ingestion run" default:"8"`
	}
)

func main() {
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)

	// Create registry
	var reg registry.Registry
	switch cfg.Registry {
	case "sqlite":
		reg = sqliteregistry.NewRegistry(
			registry.WithLocation(cfg.RegistryLocation),
		)
	default:
		reg = fileregistry.NewRegistry(
			registry.WithLocation(cfg.RegistryLocation),
		)
	}

	// Create embedder
	var emb embedder.Embedder
	switch cfg.Embedder {
	case "google":
		emb = googleembedder.NewEmbedder(
			embedder.WithApiKey(cfg.GoogleKey),
			embedder.WithModel(cfg.EmbeddingModel),
		)
	default:
		emb = openaiembedder.NewEmbedder(
			embedder.WithApiKey(cfg.OpenAIKey),
			embedder.WithModel(cfg.EmbeddingModel),
		)
	}

	// Create generator
	var gen generator.Generator
	switch cfg.Generator {
	case "anthropic":
		gen = anthropicgenerator.NewGenerator(
			generator.WithApiKey(cfg.AnthropicKey),
			generator.WithModel(cfg.ChatModel),
			generator.WithTemperature(cfg.Temperature),
		)
	default:
		gen = openaigenerator.NewGenerator(
			generator.WithApiKey(cfg.OpenAIKey),
			generator.WithModel(cfg.ChatModel),
			generator.WithTemperature(cfg.Temperature),
		)
	}

	// Create indexer
	var idx indexer.Indexer
	switch cfg.Index {
	case "qdrant":
		idx = qdrantindexer.NewIndexer(
			indexer.WithLocation(cfg.IndexLocation),
			indexer.WithApiKey(cfg.QdrantKey),
			indexer.WithIndex(cfg.IndexName),
			indexer.WithDimension(cfg.Dimension),
		)
	case "postgres":
		idx = postgresindexer.NewIndexer(
			indexer.WithLocation(cfg.IndexLocation),
			indexer.WithIndex(cfg.IndexName),
			indexer.WithDimension(cfg.Dimension),
		)
	case "memory":
		idx = memoryindexer.NewIndexer()
	default:
		idx = pineconeindexer.NewIndexer(
			indexer.WithApiKey(cfg.PineconeKey),
			indexer.WithIndex(cfg.IndexName),
			indexer.WithDimension(cfg.Dimension),
			indexer.WithCloud(cfg.Cloud),
			indexer.WithRegion(cfg.Region),
		)
	}

	// Create chunker
	chu, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("failed to create chunker: %v", err)
	}

	// Create fetcher
	fet := httpfetcher.NewFetcher(
		fetcher.WithTimeout(15 * time.Second),
	)

	// Create services
	sources := source.New(reg, cfg.AllowedHost)
	ingestion := ingest.New(reg, fet, chu, emb, idx, cfg.Concurrency)
	runner := async.NewRunner(ingestion.IngestAll)

	ret := retriever.NewRetriever(
		retriever.WithEmbedder(emb),
		retriever.WithIndexer(idx),
	)
	chatService := chat.New(ret, gen, cfg.TopK)

	// Serve
	srv := httpserver.NewServer(
		handler.Router(sources, chatService, runner),
		server.WithAddress(cfg.Address),
		httpserver.WithMiddleware(handler.CORS(cfg.Origins)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		slog.Info("serving real estate RAG API", "address", cfg.Address)
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			log.Fatalf("failed to stop server: %v", err)
		}

		slog.Info("server stopped")
	}
}
