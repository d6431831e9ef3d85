package main

import (
	"os"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/logger"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/server"
)

// @title WHEN-MEET API
// @version 1.0
// @description Weekly availability grids and meeting time recommendations

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
		os.Exit(1)
	}
}
