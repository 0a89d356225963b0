package main

import (
	"github.com/pfrederiksen/seattle-events/internal/cli"
)

func main() {
	cli.Execute()
}
