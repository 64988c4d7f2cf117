// cmd/cli/main.go
package main

import (
	"os"

	"github.com/keshon/remindme/cmd/cli/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
