package main

import (
	"flag"
	"log"
	"os"

	"FinQuote/internal/di"
	"FinQuote/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path (.yaml or .toml)")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s cache=%s kafka=%t", cfg.Environment, cfg.Cache.Backend, cfg.Kafka.Enabled)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
