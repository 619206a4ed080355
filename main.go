package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"dressup-studio/app"
	"dressup-studio/config"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	config.LoadEnvFile()

	if err := run(context.Background(), config.Load()); err != nil {
		log.Fatal(err)
	}
}

// run serves until the HTTP listener stops. The application is closed
// before the error is returned.
func run(ctx context.Context, cfg config.Config) error {
	// Initialize application
	application, err := app.Initialize(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	if sshServer := application.SSH; sshServer != nil {
		go func() {
			if err := sshServer.Start(); err != nil {
				log.Printf("❌ SSH server stopped: %v", err)
			}
		}()
	}

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker)
	addr := cfg.Addr()
	log.Printf("🎉 Server starting on %s", addr)
	log.Printf("Customizer: %s/", cfg.BaseURL)
	if cfg.SSHAddr != "" {
		log.Printf("Terminal: ssh -t to %s", cfg.SSHAddr)
	}

	if err := http.ListenAndServe(addr, application.Mux); err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}
