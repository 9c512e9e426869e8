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

var (
	orderedFlag = &cli.BoolFlag{
		Name:  "ordered",
		Usage: "open an ordered channel instead of unordered",
	}
	newClientConnectionFlag = &cli.BoolFlag{
		Name:  "new-client-connection",
		Usage: "also create a fresh client and connection to carry the new channel, instead of reusing an existing connection",
	}
	connectionIdFlag = &cli.StringFlag{
		Name:  "connection",
		Usage: "existing connection id to open the channel over (required unless --new-client-connection)",
	}
)

var createCommand = &cli.Command{
	Name:  "create",
	Usage: "create a client, connection, or channel",
	Subcommands: []*cli.Command{
		createClientCommand,
		createConnectionCommand,
		createChannelCommand,
	},
}

var createClientCommand = &cli.Command{
	Name:      "client",
	Usage:     "create a light client of src tracking it on dst",
	ArgsUsage: "<dst-chain-id> <src-chain-id>",
	Action: func(ctx *cli.Context) error {
		dstName, srcName := ctx.Args().Get(0), ctx.Args().Get(1)
		if dstName == "" || srcName == "" {
			fatalf("usage: relayer create client <dst-chain-id> <src-chain-id>")
		}
		cfg := loadConfig(ctx)
		chains := buildChains(cfg)
		dst := mustChain(chains, dstName)
		src := mustChain(chains, srcName)

		srcHeight, err := src.QueryLatestHeight(context.Background())
		if err != nil {
			fatalf("querying %s latest height: %v", srcName, err)
		}
		_, _, err = src.BuildHeader(context.Background(), ibc.ZeroHeight, srcHeight, ibc.ClientState{})
		if err != nil {
			fatalf("building initial client state for %s: %v", srcName, err)
		}

		msg := ibc.Any{TypeUrl: "/ibc.core.client.v1.MsgCreateClient"}
		events, err := dst.SendMessagesAndWaitCommit(context.Background(), []ibc.Any{msg})
		if err != nil {
			fatalf("submitting MsgCreateClient on %s: %v", dstName, err)
		}
		fmt.Printf("created client on %s tracking %s (%d events)\n", dstName, srcName, len(events))
		return nil
	},
}

var createConnectionCommand = &cli.Command{
	Name:      "connection",
	Usage:     "drive a connection handshake to completion",
	ArgsUsage: "<dst-chain-id> <src-chain-id> <dst-client-id> <src-client-id>",
	Action: func(ctx *cli.Context) error {
		args := ctx.Args()
		if args.Len() < 4 {
			fatalf("usage: relayer create connection <dst-chain-id> <src-chain-id> <dst-client-id> <src-client-id>")
		}
		cfg := loadConfig(ctx)
		chains := buildChains(cfg)
		dst := mustChain(chains, args.Get(0))
		src := mustChain(chains, args.Get(1))

		conn := ibc.NewConnection(dst, src, ibc.ClientId(args.Get(2)), ibc.ClientId(args.Get(3)))
		ctxt := context.Background()
		for {
			step, err := conn.Step(ctxt)
			if err != nil {
				fatalf("connection handshake: %v", err)
			}
			fmt.Printf("connection handshake step: %v\n", step)
			if step == ibc.ConnStepDone {
				break
			}
		}
		fmt.Println("connection open")
		return nil
	},
}

var createChannelCommand = &cli.Command{
	Name:      "channel",
	Usage:     "drive a channel handshake to completion over an existing (or freshly created) connection",
	ArgsUsage: "<dst-chain-id> <src-chain-id> <dst-port-id> <src-port-id>",
	Flags: []cli.Flag{
		orderedFlag,
		newClientConnectionFlag,
		connectionIdFlag,
	},
	Action: func(ctx *cli.Context) error {
		args := ctx.Args()
		if args.Len() < 4 {
			fatalf("usage: relayer create channel <dst-chain-id> <src-chain-id> <dst-port-id> <src-port-id>")
		}
		cfg := loadConfig(ctx)
		chains := buildChains(cfg)
		dst := mustChain(chains, args.Get(0))
		src := mustChain(chains, args.Get(1))
		ctxt := context.Background()

		connId := ibc.ConnectionId(ctx.String(connectionIdFlag.Name))
		if ctx.Bool(newClientConnectionFlag.Name) {
			fmt.Println("no existing connection given: creating a fresh client and connection first")
			conn := ibc.NewConnection(dst, src, "", "")
			for {
				step, err := conn.Step(ctxt)
				if err != nil {
					fatalf("connection handshake: %v", err)
				}
				if step == ibc.ConnStepDone {
					break
				}
			}
			connId = conn.SrcConnectionId
		} else if connId == "" {
			fatalf("create channel requires --connection <id> or --new-client-connection")
		}

		ch := ibc.NewChannel(dst, src, connId, ibc.PortId(args.Get(2)), ibc.PortId(args.Get(3)), ctx.Bool(orderedFlag.Name))
		for {
			step, err := ch.Step(ctxt)
			if err != nil {
				fatalf("channel handshake: %v", err)
			}
			fmt.Printf("channel handshake step: %v\n", step)
			if step == ibc.ChanStepDone {
				break
			}
		}
		fmt.Println("channel open")
		return nil
	},
}
