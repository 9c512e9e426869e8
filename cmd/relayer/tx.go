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

	"github.com/r5-labs/relayer/ibc"
	"github.com/urfave/cli/v2"
)

var txCommand = &cli.Command{
	Name:  "tx",
	Usage: "submit one-off transactions outside the running supervisor",
	Subcommands: []*cli.Command{
		txClearPacketsCommand,
	},
}

var txClearPacketsCommand = &cli.Command{
	Name:      "clear-packets",
	Usage:     "relay every pending packet and acknowledgement on a channel once, without a running supervisor",
	ArgsUsage: "<dst-chain-id> <src-chain-id> <src-port-id> <src-channel-id>",
	Action: func(ctx *cli.Context) error {
		args := ctx.Args()
		if args.Len() < 4 {
			fatalf("usage: relayer tx clear-packets <dst-chain-id> <src-chain-id> <src-port-id> <src-channel-id>")
		}
		cfg := loadConfig(ctx)
		chains := buildChains(cfg)
		dst := mustChain(chains, args.Get(0))
		src := mustChain(chains, args.Get(1))
		srcName := args.Get(1)

		srcEnd, err := src.QueryChannel(context.Background(), ibc.PortId(args.Get(2)), ibc.ChannelId(args.Get(3)), ibc.ZeroHeight)
		if err != nil {
			fatalf("querying channel end: %v", err)
		}

		mode := modeConfig(cfg, srcName)
		link := ibc.NewLink(src, dst, "", "", ibc.PortId(args.Get(2)), ibc.ChannelId(args.Get(3)), srcEnd.Counterparty, mode.RelayPath)

		// SchedulePacketClearing and ExecuteSchedule return an internal Task
		// signal (the unexported Abort/Ignore/Fatal sum); a nil return means
		// the step ran without error.
		if link.SchedulePacketClearing(context.Background(), nil, true) != nil {
			fatalf("querying pending packets on %s failed", srcName)
		}
		if link.ExecuteSchedule(context.Background()) != nil {
			fatalf("submitting cleared packets failed")
		}
		fmt.Println("pending packets cleared")
		return nil
	},
}
