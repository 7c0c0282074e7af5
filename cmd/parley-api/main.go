package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/parley-ai/parley-backend/internal/adapters/http"
	"github.com/parley-ai/parley-backend/internal/adapters/provider"
	"github.com/parley-ai/parley-backend/internal/adapters/speech"
	firestorestore "github.com/parley-ai/parley-backend/internal/adapters/storage/firestore"
	"github.com/parley-ai/parley-backend/internal/adapters/storage/locked"
	memstore "github.com/parley-ai/parley-backend/internal/adapters/storage/memory"
	"github.com/parley-ai/parley-backend/internal/app/chat"
	"github.com/parley-ai/parley-backend/internal/config"
	"github.com/parley-ai/parley-backend/internal/domain"
)

func main() {
	var configPath string
	var port string

	rootCmd := &cobra.Command{
		Use:          "parley-api",
		Short:        "Chat relay backend with conversation continuity",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(context.Background(), cfg)
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides config)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	chatProvider, err := buildChatProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing chat provider: %w", err)
	}

	sessionStore, err := buildSessionStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing session store: %w", err)
	}

	speechProvider := buildSpeechProvider(cfg)

	svc := chat.NewService(chatProvider, sessionStore, chat.Options{
		MaxMessageChars: cfg.MaxMessageChars,
		CallTimeout:     cfg.RequestTimeout,
		ThreadConfig: domain.ThreadConfig{
			SystemPrompt: cfg.SystemPrompt,
			Model:        cfg.ModelName,
		},
	})

	handler := httpadapter.NewServer(svc, speechProvider)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Println("Parley API listening on", addr)
	return srv.ListenAndServe()
}

func buildChatProvider(ctx context.Context, cfg *config.Config) (domain.ChatProvider, error) {
	switch cfg.Provider {
	case config.ProviderRelay:
		log.Printf("[PROVIDER] Using relay provider (%s)", cfg.RelayURL)
		return provider.NewRelay(cfg.RelayURL, cfg.RelayAPIKey, cfg.RequestTimeout), nil
	case config.ProviderOpenAI:
		log.Println("[PROVIDER] Using OpenAI provider")
		return provider.NewOpenAI(cfg.OpenAIAPIKey, cfg.ModelName), nil
	case config.ProviderVertex:
		log.Printf("[PROVIDER] Using Vertex provider (project=%s)", cfg.GCPProjectID)
		return provider.NewVertex(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
	default:
		log.Println("[PROVIDER] Using MOCK provider")
		return provider.NewMock(), nil
	}
}

func buildSessionStore(ctx context.Context, cfg *config.Config) (domain.SessionStore, error) {
	switch cfg.StorageBackend {
	case config.StorageFirestore:
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, err
		}
		// The remote store gets the locking decorator so get/put stay atomic
		// per session id.
		return locked.Wrap(store), nil
	default:
		log.Println("[STORE] Using in-memory storage")
		return memstore.NewSessionStore(), nil
	}
}

func buildSpeechProvider(cfg *config.Config) domain.SpeechProvider {
	switch cfg.SpeechBackend {
	case config.SpeechOpenAI:
		log.Println("[SPEECH] Using OpenAI text-to-speech")
		return speech.NewOpenAI(cfg.OpenAIAPIKey, cfg.SpeechModel, cfg.SpeechVoice)
	default:
		log.Println("[SPEECH] Using MOCK text-to-speech")
		return speech.NewMock()
	}
}
