package main

import (
	"iglesia/cmd/handlers"
	"iglesia/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
