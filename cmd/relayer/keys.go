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
	"encoding/hex"
	"fmt"

	"github.com/r5-labs/relayer/keystore"
	"github.com/urfave/cli/v2"
)

var accountPrefixFlag = &cli.StringFlag{
	Name:  "account-prefix",
	Usage: "bech32 account prefix the derived key's address is reported under",
	Value: "cosmos",
}

var keysCommand = &cli.Command{
	Name:  "keys",
	Usage: "manage the encrypted keys the relayer signs transactions with",
	Flags: []cli.Flag{
		keysDirFlag,
	},
	Subcommands: []*cli.Command{
		keysAddCommand,
		keysShowCommand,
	},
}

var keysAddCommand = &cli.Command{
	Name:      "add",
	Usage:     "generate a new mnemonic, derive a key from it, and store it encrypted",
	ArgsUsage: "<key-name>",
	Flags: []cli.Flag{
		accountPrefixFlag,
	},
	Action: func(ctx *cli.Context) error {
		keyName := ctx.Args().First()
		if keyName == "" {
			fatalf("usage: relayer keys add <key-name>")
		}

		mnemonic, err := keystore.NewMnemonic()
		if err != nil {
			fatalf("generating mnemonic: %v", err)
		}
		passphrase, err := keystore.PromptPassphrase("Enter a passphrase to encrypt this key: ")
		if err != nil {
			fatalf("reading passphrase: %v", err)
		}

		ks := keystore.NewFileKeystore(ctx.String(keysDirFlag.Name), passphrase)
		entry, err := ks.Add(keyName, ctx.String(accountPrefixFlag.Name), mnemonic)
		if err != nil {
			fatalf("storing key %q: %v", keyName, err)
		}

		fmt.Println("IMPORTANT: write down this mnemonic, it will not be shown again:")
		fmt.Println(mnemonic)
		fmt.Printf("key %q stored, address %s\n", entry.Name, entry.Address)
		return nil
	},
}

var keysShowCommand = &cli.Command{
	Name:      "show",
	Usage:     "print a stored key's address and public key",
	ArgsUsage: "<key-name>",
	Flags: []cli.Flag{
		jsonFlag,
	},
	Action: func(ctx *cli.Context) error {
		keyName := ctx.Args().First()
		if keyName == "" {
			fatalf("usage: relayer keys show <key-name>")
		}
		passphrase, err := keystore.PromptPassphrase("Enter the key's passphrase: ")
		if err != nil {
			fatalf("reading passphrase: %v", err)
		}

		ks := keystore.NewFileKeystore(ctx.String(keysDirFlag.Name), passphrase)
		entry, err := ks.Get(keyName)
		if err != nil {
			fatalf("unlocking key %q: %v", keyName, err)
		}

		if ctx.Bool(jsonFlag.Name) {
			mustPrintJSON(struct {
				Name      string `json:"name"`
				Address   string `json:"address"`
				PublicKey string `json:"public_key"`
			}{entry.Name, entry.Address, hex.EncodeToString(entry.PubKeyCompressed())})
			return nil
		}
		fmt.Println("Name:      ", entry.Name)
		fmt.Println("Address:   ", entry.Address)
		fmt.Println("Public key:", hex.EncodeToString(entry.PubKeyCompressed()))
		return nil
	},
}
