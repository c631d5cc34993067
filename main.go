package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/internal/httpserver"
	"github.com/robalobadob/jeopardy/internal/store"
	"github.com/robalobadob/jeopardy/internal/trivia"
	"os"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var src trivia.Source
	if getEnv("TRIVIA_SOURCE", "remote") == "embedded" {
		cat, err := trivia.DefaultCatalog()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load embedded catalog")
		}
		log.Info().Int("categories", cat.Len()).Msg("using embedded trivia catalog")
		src = cat
	} else {
		src = trivia.NewClient(os.Getenv("TRIVIA_API_URL"))
	}

	db, err := httpserver.OpenDB(getEnv("DB_PATH", "./data/jeopardy.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, src, db)
	port := getEnv("PORT", "5176")
	log.Info().Str("port", port).Msg("starting jeopardy server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" { return v }
	return def
}
