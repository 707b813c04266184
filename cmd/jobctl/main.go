package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/jobcontrolroom/jobctl/internal/buildinfo"
	"github.com/jobcontrolroom/jobctl/internal/client/cli"
	"github.com/jobcontrolroom/jobctl/internal/client/config"
	"github.com/jobcontrolroom/jobctl/internal/logging"
)

func main() {

	buildinfo.Print(os.Stdout)

	// A missing .env file is fine; the config falls back to defaults.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewZerologLogger(logging.NewZerolog(cfg.Environment))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
