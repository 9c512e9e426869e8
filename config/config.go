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

// Package config loads the relayer's TOML configuration document: a
// global section plus one section per chain.
package config

import (
	"fmt"
	"time"

	"github.com/r5-labs/relayer/chainclient"
	"github.com/r5-labs/relayer/ibc"
)

// ClientsMode carries mode.clients.{enabled,refresh,misbehaviour}.
type ClientsMode struct {
	Enabled      bool `toml:"enabled"`
	Refresh      bool `toml:"refresh"`
	Misbehaviour bool `toml:"misbehaviour"`
}

// ConnectionsMode carries mode.connections.enabled.
type ConnectionsMode struct {
	Enabled bool `toml:"enabled"`
}

// ChannelsMode carries mode.channels.enabled.
type ChannelsMode struct {
	Enabled bool `toml:"enabled"`
}

// PacketsMode carries mode.packets.{enabled,clear_interval,clear_on_start,tx_confirmation}.
type PacketsMode struct {
	Enabled        bool   `toml:"enabled"`
	ClearInterval  uint64 `toml:"clear_interval"`
	ClearOnStart   bool   `toml:"clear_on_start"`
	TxConfirmation bool   `toml:"tx_confirmation"`
}

// Mode is the global mode.* section of the config document.
type Mode struct {
	Clients     ClientsMode     `toml:"clients"`
	Connections ConnectionsMode `toml:"connections"`
	Channels    ChannelsMode    `toml:"channels"`
	Packets     PacketsMode     `toml:"packets"`
}

// Global carries config sections that apply to every chain.
type Global struct {
	LogLevel string `toml:",omitempty"`
	Mode     Mode   `toml:"mode"`
}

// ChainConfig is one `[[chains]]` table: every per-chain option the
// relayer needs to talk to a chain daemon.
type ChainConfig struct {
	Id             string  `toml:"id"`
	RpcAddr        string  `toml:"rpc_addr"`
	GrpcAddr       string  `toml:"grpc_addr,omitempty"`
	WebsocketAddr  string  `toml:"websocket_addr"`
	AccountPrefix  string  `toml:"account_prefix,omitempty"`
	KeyName        string  `toml:"key_name,omitempty"`
	AddressType    string  `toml:"address_type,omitempty"`
	GasPrice       float64 `toml:"gas_price"`
	GasPriceDenom  string  `toml:"gas_price_denom"`
	DefaultGas     int64   `toml:"default_gas,omitempty"`
	MaxGas         int64   `toml:"max_gas"`
	GasAdjustment  float64 `toml:"gas_adjustment"`
	MaxMsgNum      int     `toml:"max_msg_num"`
	MaxTxSize      int     `toml:"max_tx_size"`
	TrustingPeriod string  `toml:"trusting_period,omitempty"` // parsed as a Go duration string, e.g. "336h"
	MemoPrefix     string  `toml:"memo_prefix,omitempty"`
}

// Config is the full document: one Global plus N ChainConfigs.
type Config struct {
	Global Global        `toml:"global"`
	Chains []ChainConfig  `toml:"chains"`
}

// Validate checks the document is internally consistent, without
// touching the network: every chain id is unique and non-empty, and the
// fee-relevant numeric fields are not nonsensical.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Chains))
	for i, ch := range c.Chains {
		if ch.Id == "" {
			return fmt.Errorf("chains[%d]: id is required", i)
		}
		if seen[ch.Id] {
			return fmt.Errorf("chains[%d]: duplicate chain id %q", i, ch.Id)
		}
		seen[ch.Id] = true
		if ch.RpcAddr == "" {
			return fmt.Errorf("chain %q: rpc_addr is required", ch.Id)
		}
		if ch.MaxGas <= 0 {
			return fmt.Errorf("chain %q: max_gas must be positive", ch.Id)
		}
		if ch.MaxMsgNum <= 0 {
			return fmt.Errorf("chain %q: max_msg_num must be positive", ch.Id)
		}
		if ch.MaxTxSize <= 0 {
			return fmt.Errorf("chain %q: max_tx_size must be positive", ch.Id)
		}
	}
	return nil
}

// TrustingPeriodDuration parses TrustingPeriod, defaulting to 504 hours
// (3 weeks, the common Cosmos SDK default) when unset.
func (ch ChainConfig) TrustingPeriodDuration() (time.Duration, error) {
	if ch.TrustingPeriod == "" {
		return 504 * time.Hour, nil
	}
	return time.ParseDuration(ch.TrustingPeriod)
}

// ChainClientConfig builds the chainclient.Config this ChainConfig
// describes, ready to pass to chainclient.New.
func (ch ChainConfig) ChainClientConfig(revision uint64) chainclient.Config {
	return chainclient.Config{
		ChainId:       ibc.ChainId{Name: ch.Id, Revision: revision},
		RpcAddr:       ch.RpcAddr,
		WebsocketAddr: ch.WebsocketAddr,
	}
}

// FeeConfig builds the ibc.FeeConfig this ChainConfig describes.
func (ch ChainConfig) FeeConfig() ibc.FeeConfig {
	return ibc.FeeConfig{
		DefaultGas:     ch.DefaultGas,
		MaxGas:         ch.MaxGas,
		GasAdjustment:  ch.GasAdjustment,
		GasPriceAmount: ch.GasPrice,
		GasPriceDenom:  ch.GasPriceDenom,
		MaxMsgNum:      ch.MaxMsgNum,
		MaxTxSize:      ch.MaxTxSize,
	}
}
