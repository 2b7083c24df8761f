package main

import (
	"os"

	"github.com/tourmarket/tourmarket/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
