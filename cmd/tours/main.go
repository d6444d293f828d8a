package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

const version = "0.3.0"

// go run ./cmd/tours serve
// go run ./cmd/tours snapshot --site prg365 --enrich
// go run ./cmd/tours query --site prg365 --category walking-tours --sort rating_desc
func main() {
	root := newRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
