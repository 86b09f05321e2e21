// Command server runs the trek engine behind its JSON API.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/louisbranch/switchback/internal/api/http"
	"github.com/louisbranch/switchback/internal/llm/openai"
	"github.com/louisbranch/switchback/internal/platform/config"
	"github.com/louisbranch/switchback/internal/platform/otel"
	"github.com/louisbranch/switchback/internal/storage/sqlite"
	"github.com/louisbranch/switchback/internal/trek/companion"
	"github.com/louisbranch/switchback/internal/trek/memory"
	"github.com/louisbranch/switchback/internal/trek/session"
)

type serverConfig struct {
	Addr string `env:"SWITCHBACK_ADDR" envDefault:":8080"`

	// MemoryDB is the sqlite path for durable memories; empty keeps them
	// in process memory.
	MemoryDB string `env:"SWITCHBACK_MEMORY_DB"`

	MemoryTimeout    time.Duration `env:"SWITCHBACK_MEMORY_TIMEOUT" envDefault:"2s"`
	CompleterTimeout time.Duration `env:"SWITCHBACK_COMPLETER_TIMEOUT" envDefault:"10s"`

	// An empty API key selects the scripted offline companions.
	OpenAIKey     string `env:"SWITCHBACK_OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"SWITCHBACK_OPENAI_BASE_URL"`
	OpenAIModel   string `env:"SWITCHBACK_OPENAI_MODEL"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg serverConfig
	if err := config.ParseEnv(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	shutdownTracing, err := otel.Setup(ctx, "switchback")
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	var backend memory.Backend
	if cfg.MemoryDB != "" {
		store, err := sqlite.Open(cfg.MemoryDB)
		if err != nil {
			log.Fatalf("sqlite: %v", err)
		}
		defer store.Close()
		backend = store
		log.Printf("memory backend: sqlite at %s", cfg.MemoryDB)
	} else {
		backend = memory.NewInMemoryBackend()
		log.Print("memory backend: in-process")
	}
	gateway := memory.NewGateway(backend, cfg.MemoryTimeout)

	var completer companion.Completer
	if cfg.OpenAIKey != "" {
		completer = openai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		log.Print("companions: chat completions")
	} else {
		completer = &companion.Scripted{}
		log.Print("companions: scripted (no API key)")
	}
	generator := companion.NewGenerator(gateway, completer, cfg.CompleterTimeout)

	manager := session.NewManager(gateway, generator)
	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.NewServer(manager).Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("serve: %v", err)
	}
}
