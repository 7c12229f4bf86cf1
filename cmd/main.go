package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	v1handlers "github.com/parleyhq/parley/internal/api/v1/handlers"
	"github.com/parleyhq/parley/internal/config"
	"github.com/parleyhq/parley/internal/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	setupLogging()

	svc, err := services.InitializeServices()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	router := setupRouter(svc)

	addr := ":" + config.GetServerPort()
	log.Info().Str("addr", addr).Msg("Server starting")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal().Err(err).Msg("ListenAndServe error")
	}
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "ERROR":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func setupRouter(svc *services.Services) *mux.Router {
	router := mux.NewRouter()
	v1handlers.RegisterV1Routes(router, svc)
	return router
}
