package main

import (
	"fmt"
	"log"
	"os"

	"cofoundr_pitch_deck/cli"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := cli.BuildCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
