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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/r5-labs/relayer/config"
	"github.com/r5-labs/relayer/ibc"
	"github.com/urfave/cli/v2"
)

var watchFlag = &cli.BoolFlag{
	Name:  "watch",
	Usage: "watch the config document and report changes; running chains are not altered and a restart applies them",
}

var startCommand = &cli.Command{
	Name:  "start",
	Usage: "run the supervisor: subscribe to every configured chain and relay until stopped",
	Flags: []cli.Flag{
		watchFlag,
	},
	Action: func(ctx *cli.Context) error {
		cfg := loadConfig(ctx)
		chains := buildChains(cfg)
		mode := globalModeConfig(cfg)

		supervisor := ibc.NewSupervisor(chains, mode)

		runCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sig
			fmt.Fprintln(os.Stderr, "shutdown signal received, draining workers...")
			cancel()
		}()

		if ctx.Bool(watchFlag.Name) {
			w, err := config.NewWatcher(ctx.String(configFlag.Name))
			if err != nil {
				fatalf("starting config watcher: %v", err)
			}
			defer w.Close()
			go watchConfigChanges(runCtx, w, supervisor, chains)
		}

		go supervisor.Run(runCtx)
		<-supervisor.Done()
		fmt.Println("supervisor stopped")
		return nil
	},
}

// watchConfigChanges never hot-swaps a running chain's identity (per
// config.Watcher's contract); it only logs reloads so an operator knows a
// restart is needed to pick up changed chain entries.
func watchConfigChanges(ctx context.Context, w *config.Watcher, _ *ibc.Supervisor, _ map[ibc.ChainId]ibc.ChainHandle) {
	for {
		select {
		case <-ctx.Done():
			return
		case newCfg, ok := <-w.Changed:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "config changed: %d chains configured (restart to apply)\n", len(newCfg.Chains))
		}
	}
}
