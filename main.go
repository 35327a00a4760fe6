package main

import (
	"errors"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/recruitkit/recruitkit/app"
	"github.com/recruitkit/recruitkit/config"
	"github.com/recruitkit/recruitkit/database"
	"github.com/recruitkit/recruitkit/gdrive"
	"github.com/recruitkit/recruitkit/gsheet"
	"github.com/recruitkit/recruitkit/httpx"
	"github.com/recruitkit/recruitkit/log"
	"github.com/recruitkit/recruitkit/routes"
	"github.com/recruitkit/recruitkit/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	bearerServer := httpx.NewBearerServer(db, cfg)

	app := app.App{
		DB:           db,
		BearerServer: bearerServer,
		Config:       cfg,

		Openings:  store.NewOpenings(db),
		Responses: store.NewResponses(db),
		Drive:     gdrive.NewUploader(cfg.Google),
		Local:     &gdrive.LocalUploader{Dir: cfg.UploadsDir},
		Sheets:    gsheet.NewClient(cfg.Google),
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
