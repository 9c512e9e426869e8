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
	"encoding/json"
	"fmt"

	"github.com/r5-labs/relayer/chainclient"
	"github.com/r5-labs/relayer/config"
	"github.com/r5-labs/relayer/ibc"
	"github.com/urfave/cli/v2"
)

// loadConfig reads and validates the config document named by --config.
func loadConfig(ctx *cli.Context) *config.Config {
	path := ctx.String(configFlag.Name)
	cfg, err := config.Load(path)
	if err != nil {
		fatalf("loading config: %v", err)
	}
	return cfg
}

// buildChains constructs a chainclient.Client for every [[chains]] entry,
// keyed by the ibc.ChainId the core addresses it by.
func buildChains(cfg *config.Config) map[ibc.ChainId]ibc.ChainHandle {
	chains := make(map[ibc.ChainId]ibc.ChainHandle, len(cfg.Chains))
	for _, ch := range cfg.Chains {
		id := ibc.ChainId{Name: ch.Id}
		chains[id] = chainclient.New(ch.ChainClientConfig(0))
	}
	return chains
}

// mustChain resolves a single --chain-id flag to its configured ChainHandle,
// exiting nonzero if it isn't present in the config document.
func mustChain(chains map[ibc.ChainId]ibc.ChainHandle, name string) ibc.ChainHandle {
	id := ibc.ChainId{Name: name}
	h, ok := chains[id]
	if !ok {
		fatalf("chain %q is not present in the config document", name)
	}
	return h
}

// modeConfig translates config.Mode plus a specific chain's fee config
// into the ibc.ModeConfig a single-direction RelayPath is built from
// (used by `tx clear-packets` and similar single-channel operations).
func modeConfig(cfg *config.Config, chainId string) ibc.ModeConfig {
	var fee ibc.FeeConfig
	for _, ch := range cfg.Chains {
		if ch.Id == chainId {
			fee = ch.FeeConfig()
			break
		}
	}
	mc := globalModeConfig(cfg)
	mc.RelayPath.Fee = fee
	return mc
}

// globalModeConfig builds an ibc.ModeConfig carrying the global mode.*
// toggles, with a zero-value Fee — used by `start`, which builds one
// Supervisor shared across every chain pair rather than one
// RelayPathConfig per chain. Per-Link fee lookup happens in
// Supervisor.buildLink's chain-specific context instead.
func globalModeConfig(cfg *config.Config) ibc.ModeConfig {
	return ibc.ModeConfig{
		ClientsEnabled:      cfg.Global.Mode.Clients.Enabled,
		ClientsRefresh:      cfg.Global.Mode.Clients.Refresh,
		ClientsMisbehaviour: cfg.Global.Mode.Clients.Misbehaviour,
		ConnectionsEnabled:  cfg.Global.Mode.Connections.Enabled,
		ChannelsEnabled:     cfg.Global.Mode.Channels.Enabled,
		PacketsEnabled:      cfg.Global.Mode.Packets.Enabled,
		RelayPath: ibc.RelayPathConfig{
			ClearInterval: cfg.Global.Mode.Packets.ClearInterval,
			ClearOnStart:  cfg.Global.Mode.Packets.ClearOnStart,
		},
	}
}

func mustPrintJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalf("marshalling output: %v", err)
	}
	fmt.Println(string(b))
}
