package main

import (
	"context"
	"log"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/bootstrap"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/config"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/server"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	ctx := context.Background()
	if err := container.AutosaveService.Consume(ctx); err != nil {
		log.Printf("Background Autosave Consumer Error: %v", err)
	}
	if err := container.CatalogService.Consume(ctx); err != nil {
		log.Printf("Background Catalog Consumer Error: %v", err)
	}

	// 4. Bootstrap the board document (remote-only; failures start empty)
	go container.SyncService.Bootstrap(ctx)

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
