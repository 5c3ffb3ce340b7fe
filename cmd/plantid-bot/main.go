package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"plantid-bot-go/internal/bootstrap"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default $PLANTBOT_CONFIG or ./config.yaml)")
	flag.Parse()

	fmt.Printf("[%s] [INFO] [Bootstrap] starting plantid-bot...\n", time.Now().Format("2006-01-02 15:04:05.000"))
	if err := bootstrap.Run(context.Background(), *configPath); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "plantid-bot failed: %v\n", err)
		os.Exit(1)
	}
}
