package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/bookapi/internal/client/bookctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := bookctl.NewApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, bookctl.ErrUsage) {
			fmt.Fprintf(os.Stderr, "bookctl: %v\n", err)
		}
		stop()
		os.Exit(2)
	}
}
