package cmdflags

import (
	"github.com/andrebq/taskbox/auth"
	"github.com/urfave/cli/v2"
)

func Bind(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "bind",
		Usage:       "Address to bind and export the task API",
		EnvVars:     []string{"TASKBOX_BIND"},
		Value:       *out,
		Destination: out,
	}
}

func Store(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "store",
		Aliases:     []string{"s", "db"},
		Usage:       "Path to the task store database",
		EnvVars:     []string{"TASKBOX_STORE"},
		Destination: out,
		Required:    true,
	}
}

func TokenSecretEnvVar(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = auth.TokenSecretEnvVar
	}
	return &cli.StringFlag{
		Name:        "token-secret-envvar-name",
		Usage:       "Name of the environment variable that holds the token signing secret. The secret itself should not be passed as an argument",
		Value:       *out,
		Destination: out,
	}
}
