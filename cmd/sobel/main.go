// Command sobel runs distributed Sobel edge detection on an image.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gogpu/sobel/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "sobel:", err)
		stop()
		os.Exit(1)
	}
}
