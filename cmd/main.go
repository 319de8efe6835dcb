package main

import (
	"os"

	"github.com/kvizarena/api/internal/cli"
	"github.com/kvizarena/api/internal/logger"
)

// @title KvizArena API
// @version 1.0
// @description Quiz hosting API with timed sessions, rankings, and achievements.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
