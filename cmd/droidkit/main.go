// cmd/droidkit/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arc-language/droidkit"
	"github.com/arc-language/droidkit/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := droidkit.Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "\n%s\n", hint)
		}
		stop()
		os.Exit(1)
	}
}
