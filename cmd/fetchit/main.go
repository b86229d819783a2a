// Command fetchit is the FetchIt CLI entry point. It wires the driven
// adapters (config, storage, embedding, generators) into the core services
// and hands them to the command layer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fetchit-ai/fetchit/internal/adapters/driven/auth"
	configfile "github.com/fetchit-ai/fetchit/internal/adapters/driven/config/file"
	ollamaembed "github.com/fetchit-ai/fetchit/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/fetchit-ai/fetchit/internal/adapters/driven/embedding/openai"
	"github.com/fetchit-ai/fetchit/internal/adapters/driven/llm/anthropic"
	"github.com/fetchit-ai/fetchit/internal/adapters/driven/llm/cohere"
	"github.com/fetchit-ai/fetchit/internal/adapters/driven/llm/gemini"
	"github.com/fetchit-ai/fetchit/internal/adapters/driven/llm/groq"
	openaillm "github.com/fetchit-ai/fetchit/internal/adapters/driven/llm/openai"
	"github.com/fetchit-ai/fetchit/internal/adapters/driven/storage/memory"
	"github.com/fetchit-ai/fetchit/internal/adapters/driven/storage/sqlite"
	"github.com/fetchit-ai/fetchit/internal/adapters/driving/cli"
	"github.com/fetchit-ai/fetchit/internal/chunker"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
	"github.com/fetchit-ai/fetchit/internal/core/services"
	"github.com/fetchit-ai/fetchit/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	config, err := configfile.NewConfigStore(os.Getenv("FETCHIT_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Watch(); err != nil {
		logger.Warn("config watch unavailable: %v", err)
	}
	defer config.Close()

	feedbackLog, err := sqlite.NewStore(config.GetString("data.dir"))
	if err != nil {
		return fmt.Errorf("open feedback log: %w", err)
	}
	defer feedbackLog.Close()

	embedder := buildEmbedder(config)
	defer embedder.Close()

	chain := buildChain(config)
	defer chain.Close()

	learning := services.NewLearningService(feedbackLog, chain)
	if err := learning.Restore(ctx); err != nil {
		logger.Warn("restore pending feedback: %v", err)
	}
	go learning.Start(ctx)

	indexStore := memory.NewIndexStore()
	chunks := chunker.New(
		chunker.WithChunkSize(config.GetInt("chunking.size")),
		chunker.WithOverlap(config.GetInt("chunking.overlap")),
	)

	indexer := services.NewIndexer(indexStore, embedder, chunks)
	retriever := services.NewRetriever(indexStore, embedder, learning)
	synthesizer := services.NewSynthesizer(chain)
	conversation := services.NewConversationLog()
	agent := services.NewAgent(indexer, retriever, synthesizer, conversation, indexStore)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Agent:    agent,
		Feedback: learning,
	})

	return cli.Execute()
}

// buildEmbedder selects the embedding provider from configuration.
// Default is a local Ollama server; "openai" switches to the hosted API.
func buildEmbedder(config driven.ConfigStore) driven.EmbeddingService {
	if config.GetString("embedding.provider") == "openai" {
		key := configValue(config, "providers.openai.api_key", "OPENAI_API_KEY")
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			Tokens:     auth.NewStaticProvider(key),
			Model:      config.GetString("embedding.model"),
			Dimensions: config.GetInt("embedding.dimensions"),
		})
		if err == nil {
			return svc
		}
		logger.Warn("openai embedding unavailable: %v", err)
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    config.GetString("embedding.base_url"),
		Model:      config.GetString("embedding.model"),
		Dimensions: config.GetInt("embedding.dimensions"),
	})
}

// buildChain assembles the generator fallback chain in priority order.
// Providers without a configured key report unavailable and are skipped
// at generation time.
func buildChain(config driven.ConfigStore) *services.GeneratorChain {
	return services.NewGeneratorChain(
		groq.NewGenerator(groq.Config{
			APIKey: configValue(config, "providers.groq.api_key", "GROQ_API_KEY"),
			Model:  config.GetString("providers.groq.model"),
		}),
		gemini.NewGenerator(gemini.Config{
			APIKey: configValue(config, "providers.gemini.api_key", "GEMINI_API_KEY"),
			Model:  config.GetString("providers.gemini.model"),
		}),
		cohere.NewGenerator(cohere.Config{
			APIKey: configValue(config, "providers.cohere.api_key", "COHERE_API_KEY"),
			Model:  config.GetString("providers.cohere.model"),
		}),
		openaillm.NewGenerator(openaillm.Config{
			APIKey: configValue(config, "providers.openai.api_key", "OPENAI_API_KEY"),
			Model:  config.GetString("providers.openai.model"),
		}),
		anthropic.NewGenerator(anthropic.Config{
			APIKey: configValue(config, "providers.anthropic.api_key", "ANTHROPIC_API_KEY"),
			Model:  config.GetString("providers.anthropic.model"),
		}),
	)
}

// configValue reads a key from the config file, falling back to an
// environment variable.
func configValue(config driven.ConfigStore, key, envVar string) string {
	if v := config.GetString(key); v != "" {
		return v
	}
	return os.Getenv(envVar)
}
