// Package main is the entry point for the nightpulse CLI.
package main

import (
	"github.com/joho/godotenv"

	"github.com/nightpulse/nightpulse/internal/app"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0"
var version = "dev"

func main() {
	// A local .env is optional; secrets may also come from files under
	// /run/secrets or the environment.
	_ = godotenv.Load()

	app.SetVersion(version)
	app.Execute()
}
