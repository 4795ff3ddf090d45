// Command hexmap draws UK constituency hex maps.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ctessum/hexmap/internal/cli"
)

func main() {
	app := cli.New()

	if err := app.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
