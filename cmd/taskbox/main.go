package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/andrebq/taskbox/cmd/taskbox/serve"
	"github.com/andrebq/taskbox/cmd/taskbox/users"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "taskbox",
		Usage: "Keep track of your tasks, and nobody else's!",
		Commands: []*cli.Command{
			serve.Cmd(),
			users.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
	}
}
