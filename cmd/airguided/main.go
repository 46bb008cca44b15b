package main

import (
	"context"
	"log"
	"os"

	"airguide/internal/config"
	"airguide/internal/daemonrun"
)

func main() {
	cfg, _, _, err := config.Load(os.Getenv("AIRGUIDE_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{}); err != nil {
		log.Fatalf("airguided: %v", err)
	}
}
