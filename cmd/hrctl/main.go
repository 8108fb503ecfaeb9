package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"hrhub/internal/cli"
	"hrhub/internal/client"
	"hrhub/internal/session"

	flag "github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hrctl:", cli.Describe(err))
		os.Exit(1)
	}
}

func run() error {
	serverURL := flag.StringP("server", "s", envOr("HRHUB_SERVER", "http://localhost:8080"), "HR API base URL")
	sessionDir := flag.String("session-dir", "", "directory holding session.json (default: user config dir)")
	flag.Parse()

	var store *session.FileStore
	if *sessionDir != "" {
		store = session.NewFileStore(*sessionDir)
	} else {
		var err error
		if store, err = session.DefaultFileStore(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess := session.NewContext(store)
	if _, err := sess.Restore(ctx); err != nil {
		return fmt.Errorf("restore session from %s: %w", store.Path(), err)
	}

	app := cli.NewApp(client.New(*serverURL, sess), os.Stdin, os.Stdout)
	return app.Run(ctx, flag.Args())
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
