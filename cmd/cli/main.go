package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/taskforge/internal/client/cli"
	"github.com/dmitrijs2005/taskforge/internal/client/config"
)

func main() {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)
	app.Run(ctx)
}
