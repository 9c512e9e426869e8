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

var queryCommand = &cli.Command{
	Name:  "query",
	Usage: "read-only lookups against a configured chain",
	Flags: []cli.Flag{
		jsonFlag,
	},
	Subcommands: []*cli.Command{
		queryClientCommand,
		queryConnectionCommand,
		queryChannelCommand,
		queryHeightCommand,
	},
}

var queryHeightCommand = &cli.Command{
	Name:      "height",
	Usage:     "query a chain's latest height",
	ArgsUsage: "<chain-id>",
	Flags:     []cli.Flag{jsonFlag},
	Action: func(ctx *cli.Context) error {
		name := ctx.Args().First()
		if name == "" {
			fatalf("usage: relayer query height <chain-id>")
		}
		cfg := loadConfig(ctx)
		chains := buildChains(cfg)
		chain := mustChain(chains, name)

		height, err := chain.QueryLatestHeight(context.Background())
		if err != nil {
			fatalf("querying %s height: %v", name, err)
		}
		if ctx.Bool(jsonFlag.Name) {
			mustPrintJSON(height)
			return nil
		}
		fmt.Printf("%s: revision %d height %d\n", name, height.RevisionNumber, height.RevisionHeight)
		return nil
	},
}

var queryClientCommand = &cli.Command{
	Name:      "client",
	Usage:     "query a client's state",
	ArgsUsage: "<chain-id> <client-id>",
	Flags:     []cli.Flag{jsonFlag},
	Action: func(ctx *cli.Context) error {
		args := ctx.Args()
		if args.Len() < 2 {
			fatalf("usage: relayer query client <chain-id> <client-id>")
		}
		cfg := loadConfig(ctx)
		chains := buildChains(cfg)
		chain := mustChain(chains, args.Get(0))

		state, err := chain.QueryClientState(context.Background(), ibc.ClientId(args.Get(1)), ibc.ZeroHeight)
		if err != nil {
			fatalf("querying client %s on %s: %v", args.Get(1), args.Get(0), err)
		}
		if ctx.Bool(jsonFlag.Name) {
			mustPrintJSON(state)
			return nil
		}
		fmt.Printf("client %s: latest_height=%d expired=%v frozen=%v\n",
			args.Get(1), state.LatestHeight.RevisionHeight, state.Expired, state.Frozen)
		return nil
	},
}

var queryConnectionCommand = &cli.Command{
	Name:      "connection",
	Usage:     "query a connection's state",
	ArgsUsage: "<chain-id> <connection-id>",
	Flags:     []cli.Flag{jsonFlag},
	Action: func(ctx *cli.Context) error {
		args := ctx.Args()
		if args.Len() < 2 {
			fatalf("usage: relayer query connection <chain-id> <connection-id>")
		}
		cfg := loadConfig(ctx)
		chains := buildChains(cfg)
		chain := mustChain(chains, args.Get(0))

		conn, err := chain.QueryConnection(context.Background(), ibc.ConnectionId(args.Get(1)), ibc.ZeroHeight)
		if err != nil {
			fatalf("querying connection %s on %s: %v", args.Get(1), args.Get(0), err)
		}
		if ctx.Bool(jsonFlag.Name) {
			mustPrintJSON(conn)
			return nil
		}
		fmt.Printf("connection %s: state=%v client=%s\n", args.Get(1), conn.State, conn.ClientId)
		return nil
	},
}

var queryChannelCommand = &cli.Command{
	Name:      "channel",
	Usage:     "query a channel's state",
	ArgsUsage: "<chain-id> <port-id> <channel-id>",
	Flags:     []cli.Flag{jsonFlag},
	Action: func(ctx *cli.Context) error {
		args := ctx.Args()
		if args.Len() < 3 {
			fatalf("usage: relayer query channel <chain-id> <port-id> <channel-id>")
		}
		cfg := loadConfig(ctx)
		chains := buildChains(cfg)
		chain := mustChain(chains, args.Get(0))

		ch, err := chain.QueryChannel(context.Background(), ibc.PortId(args.Get(1)), ibc.ChannelId(args.Get(2)), ibc.ZeroHeight)
		if err != nil {
			fatalf("querying channel %s/%s on %s: %v", args.Get(1), args.Get(2), args.Get(0), err)
		}
		if ctx.Bool(jsonFlag.Name) {
			mustPrintJSON(ch)
			return nil
		}
		fmt.Printf("channel %s/%s: state=%v counterparty=%s\n", args.Get(1), args.Get(2), ch.State, ch.Counterparty)
		return nil
	},
}
