// Command campus serves the campus backend.
//
// Configuration is read from the environment and an optional .env file;
// see package app for the variables.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/myschool/campus/app"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	return a.Run(context.Background())
}
