package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"fjacquet/bank-tally/cmd/convert"
	"fjacquet/bank-tally/cmd/narrations"
	"fjacquet/bank-tally/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(narrations.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
