package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/taskforge/internal/logging"
	"github.com/dmitrijs2005/taskforge/internal/worker"
	"github.com/dmitrijs2005/taskforge/internal/worker/config"
)

func main() {

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	cfg := config.LoadConfig()
	w := worker.New(cfg, logging.NewJSONLogger())

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("%v", err)
	}
}
