package main

import (
	"os"

	namematchcmder "github.com/papercomputeco/namematch/cmd/namematch"
)

func main() {
	cmd := namematchcmder.NewNamematchCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
