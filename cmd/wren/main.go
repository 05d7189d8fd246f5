package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/simonhull/firebird-suite/wren/internal/commands"
	"github.com/simonhull/firebird-suite/wren/internal/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewApp().ExecuteContext(ctx); err != nil {
		output.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
