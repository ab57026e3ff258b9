package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/ekoshkin/recallbox/internal/buildinfo"
	"github.com/ekoshkin/recallbox/internal/logging"
	"github.com/ekoshkin/recallbox/internal/server"
	"github.com/ekoshkin/recallbox/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
