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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testDoc = `
[global]
log_level = "info"

[global.mode.clients]
enabled = true
refresh = true
misbehaviour = true

[global.mode.connections]
enabled = true

[global.mode.channels]
enabled = true

[global.mode.packets]
enabled = true
clear_interval = 100
clear_on_start = true

[[chains]]
id = "chain-a"
rpc_addr = "http://localhost:26657"
websocket_addr = "ws://localhost:26657/websocket"
gas_price = 0.025
gas_price_denom = "stake"
max_gas = 400000
gas_adjustment = 0.1
max_msg_num = 5
max_tx_size = 2097152
trusting_period = "336h"

[[chains]]
id = "chain-b"
rpc_addr = "http://localhost:26667"
websocket_addr = "ws://localhost:26667/websocket"
gas_price = 0.025
gas_price_denom = "stake"
max_gas = 400000
gas_adjustment = 0.1
max_msg_num = 5
max_tx_size = 2097152
`

func writeTempConfig(t *testing.T, doc string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoadParsesGlobalAndChains(t *testing.T) {
	path := writeTempConfig(t, testDoc)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.True(t, cfg.Global.Mode.Clients.Enabled)
	require.True(t, cfg.Global.Mode.Packets.ClearOnStart)
	require.Equal(t, uint64(100), cfg.Global.Mode.Packets.ClearInterval)
	require.Len(t, cfg.Chains, 2)
	require.Equal(t, "chain-a", cfg.Chains[0].Id)
	require.Equal(t, "chain-b", cfg.Chains[1].Id)

	dur, err := cfg.Chains[0].TrustingPeriodDuration()
	require.NoError(t, err)
	require.Equal(t, 336*time.Hour, dur)

	dur2, err := cfg.Chains[1].TrustingPeriodDuration()
	require.NoError(t, err)
	require.Equal(t, 504*time.Hour, dur2)
}

func TestValidateRejectsDuplicateChainIds(t *testing.T) {
	cfg := &Config{Chains: []ChainConfig{
		{Id: "a", RpcAddr: "x", MaxGas: 1, MaxMsgNum: 1, MaxTxSize: 1},
		{Id: "a", RpcAddr: "y", MaxGas: 1, MaxMsgNum: 1, MaxTxSize: 1},
	}}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsMissingRpcAddr(t *testing.T) {
	cfg := &Config{Chains: []ChainConfig{
		{Id: "a", MaxGas: 1, MaxMsgNum: 1, MaxTxSize: 1},
	}}
	require.Error(t, cfg.Validate())
}
