package main

import (
	"os"

	"glimpse/internal/app"
)

// @title           Glimpse API
// @description     Local chat relay for multi-turn text-and-image conversations with Gemini.
// @version         1.0
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
