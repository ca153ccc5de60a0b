package users

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/andrebq/taskbox/auth"
	"github.com/andrebq/taskbox/internal/cmdflags"
	"github.com/andrebq/taskbox/store"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var storePath string
	return &cli.Command{
		Name:  "users",
		Usage: "Manage taskbox users without going through the HTTP API",
		Flags: []cli.Flag{
			cmdflags.Store(&storePath),
		},
		Subcommands: []*cli.Command{
			registerCmd(&storePath),
		},
	}
}

func registerCmd(storePath *string) *cli.Command {
	var username string
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new user (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u", "user"},
				Usage:       "Name of the user to register",
				Destination: &username,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			sc := bufio.NewScanner(os.Stdin)
			if !sc.Scan() {
				return sc.Err()
			}
			passwd := auth.PlainText(strings.TrimSpace(sc.Text()))
			defer passwd.Zero()
			if len(passwd) == 0 {
				return errors.New("missing password from stdin")
			}
			db, err := store.Open(ctx.Context, *storePath)
			if err != nil {
				return err
			}
			defer db.Close()
			hash, err := auth.HashPassword(passwd)
			if err != nil {
				return err
			}
			_, err = db.CreateUser(ctx.Context, username, hash)
			return err
		},
	}
}
