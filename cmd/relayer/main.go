// Copyright 2025 R5 Labs
// This file is part of the R5 Core library.
//
// This software is provided "as is", without warranty of any kind,
// express or implied, including but not limited to the warranties
// of merchantability, fitness for a particular purpose and
// noninfringement. In no event shall the authors or copyright
// holders be liable for any claim, damages, or other liability,
// whether in an action of contract, tort or otherwise, arising
// from, out of or in connection with the software or the use or
// other dealings in the software.

// Command relayer is the surrounding tool around the relay engine
// package ibc: it parses the config document, builds one chainclient.Client
// per configured chain, and exposes create/update/start/tx/query
// subcommands over it.
package main

import (
	"fmt"
	"os"

	"github.com/r5-labs/relayer/log"
	"github.com/urfave/cli/v2"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to the relayer's TOML config document",
		Value:   "config.toml",
	}
	keysDirFlag = &cli.StringFlag{
		Name:  "keys-dir",
		Usage: "directory holding encrypted key files",
		Value: "keys",
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "print machine-readable JSON output",
	}
)

func main() {
	app := &cli.App{
		Name:  "relayer",
		Usage: "an IBC relayer: creates clients/connections/channels and relays packets between them",
		Flags: []cli.Flag{
			configFlag,
		},
		Commands: []*cli.Command{
			createCommand,
			updateCommand,
			startCommand,
			txCommand,
			queryCommand,
			keysCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// fatalf logs a CRIT line and exits nonzero: unrecoverable CLI
// operations exit nonzero with a formatted diagnostic.
func fatalf(format string, args ...any) {
	log.Crit(fmt.Sprintf(format, args...))
	os.Exit(1)
}
