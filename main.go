package main

import (
	"github.com/flightlog/ulog/cli/cmd"
)

func main() {
	cmd.Execute()
}
