package serve

import (
	"os"

	"github.com/andrebq/taskbox/api"
	"github.com/andrebq/taskbox/auth"
	authapi "github.com/andrebq/taskbox/auth/api"
	"github.com/andrebq/taskbox/internal/cmdflags"
	"github.com/andrebq/taskbox/internal/httpserver"
	"github.com/andrebq/taskbox/internal/logutil"
	"github.com/andrebq/taskbox/store"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:8080"
	var storePath string
	var secretEnvVar string
	var debug bool
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the taskbox HTTP API",
		Flags: []cli.Flag{
			cmdflags.Bind(&bindAddr),
			cmdflags.Store(&storePath),
			cmdflags.TokenSecretEnvVar(&secretEnvVar),
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       "Log debug entries, including rejected tokens",
				Destination: &debug,
			},
		},
		Action: func(ctx *cli.Context) error {
			log := logutil.NewConsole(debug)
			appCtx := logutil.WithLogger(ctx.Context, log)

			secret, err := auth.SecretFromEnv(secretEnvVar, os.Getenv, os.Setenv)
			if err != nil {
				return err
			}
			db, err := store.Open(appCtx, storePath)
			if db == nil {
				return err
			}
			defer db.Close()
			if err != nil {
				// keep serving, requests fail individually until the
				// store recovers
				log.Error().Err(err).Str("store", storePath).Msg("Task store is not ready")
			} else {
				log.Info().Str("store", storePath).Msg("Task store connected")
			}

			tokens := auth.NewTokens(secret)
			realm := authapi.NewRealm(tokens)
			handler := api.AsHandler(appCtx, db, tokens, realm)
			return httpserver.Serve(appCtx, bindAddr, handler)
		},
	}
}
