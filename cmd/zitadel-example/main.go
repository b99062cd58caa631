package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ragnaraven/zitadel-go-dual/internal/cli"
)

const usage = `zitadel-example - talk to a ZITADEL instance with the Go SDK

Usage:
  zitadel-example <command> [flags]

Commands:
  health   Check that the auth and management APIs answer
  me       Show the user the credential belongs to
  users    Search users by email, state or display name
  roles    List the roles of a project

Connection flags (all commands):
  -endpoint, -transport, -insecure, -token, -token-file, -key-file,
  -org-id, -project-id, -rate-limit, -log-level

Settings may also come from ZITADEL_* environment variables and from the
YAML file named by ZITADEL_CONFIG. Without a credential and with a
terminal on stdin, the token is prompted for.

Run 'zitadel-example <command> -h' for help on a specific command.`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "health":
		err = cli.RunHealth(ctx, args, os.Stdout)
	case "me":
		err = cli.RunMe(ctx, args, os.Stdout)
	case "users":
		err = cli.RunUsers(ctx, args, os.Stdout)
	case "roles":
		err = cli.RunRoles(ctx, args, os.Stdout)
	case "-h", "--help", "help":
		fmt.Println(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\nRun 'zitadel-example help' for usage", os.Args[1])
	}
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}
