// Package app wires the sommelier together: configuration, catalogue
// database, preference memory, Genkit with the configured model provider,
// the tool set, and the HTTP server.
package app

import (
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aionysus/dionysus/api"
	"github.com/aionysus/dionysus/internal/agent"
	"github.com/aionysus/dionysus/internal/config"
	"github.com/aionysus/dionysus/internal/identity"
	"github.com/aionysus/dionysus/internal/log"
)

// App is the assembled application.
type App struct {
	Config    *config.Config
	Logger    log.Logger
	Genkit    *genkit.Genkit
	Pool      *pgxpool.Pool
	Cache     *identity.Cache
	Sommelier *agent.Sommelier
	Server    *api.Server

	otelShutdown func()
}

// Close releases all resources acquired during Setup.
func (a *App) Close() error {
	if a.Pool != nil {
		a.Pool.Close()
		a.Logger.Info("database pool closed")
	}
	if a.otelShutdown != nil {
		a.otelShutdown()
	}
	return nil
}
