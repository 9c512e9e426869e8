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

package ibc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatchMessagesSplitsOnMaxMsgNum(t *testing.T) {
	msgs := make([]Any, 7)
	for i := range msgs {
		msgs[i] = Any{TypeUrl: "/ibc.core.channel.v1.MsgRecvPacket"}
	}
	batches := BatchMessages(msgs, 3, 0)

	var lens []int
	for _, b := range batches {
		lens = append(lens, len(b))
	}
	require.Equal(t, []int{3, 3, 1}, lens)
}

func TestBatchMessagesSplitsOnMaxTxSize(t *testing.T) {
	msgs := []Any{
		{TypeUrl: "/a", Value: make([]byte, 10)},
		{TypeUrl: "/a", Value: make([]byte, 10)},
		{TypeUrl: "/a", Value: make([]byte, 10)},
		{TypeUrl: "/a", Value: make([]byte, 10)},
		{TypeUrl: "/a", Value: make([]byte, 10)},
		{TypeUrl: "/a", Value: make([]byte, 10)},
		{TypeUrl: "/a", Value: make([]byte, 10)},
	}
	// each message is 12 bytes (2 + 10); a 26-byte cap fits 2 per batch.
	batches := BatchMessages(msgs, 0, 26)

	var lens []int
	for _, b := range batches {
		lens = append(lens, len(b))
	}
	require.Equal(t, []int{2, 2, 2, 1}, lens)
}

func TestBatchMessagesNeverDropsAnOversizedMessage(t *testing.T) {
	msgs := []Any{{TypeUrl: "/a", Value: make([]byte, 100)}}
	batches := BatchMessages(msgs, 10, 10)
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 1)
}

func TestBatchMessagesPreservesOrderAndTotalCount(t *testing.T) {
	msgs := []Any{
		{TypeUrl: "/1"}, {TypeUrl: "/2"}, {TypeUrl: "/3"}, {TypeUrl: "/4"}, {TypeUrl: "/5"},
	}
	batches := BatchMessages(msgs, 2, 0)

	var flattened []Any
	for _, b := range batches {
		flattened = append(flattened, b...)
	}
	require.Equal(t, msgs, flattened)
}

func TestEstimateGasAndFeeAdjustsAndCaps(t *testing.T) {
	chain := newFakeChain("chainA")
	chain.SimulateGas = 100
	cfg := FeeConfig{MaxGas: 150, GasAdjustment: 0.5, GasPriceAmount: 2, GasPriceDenom: "stake"}

	gas, fee, err := EstimateGasAndFee(context.Background(), chain, nil, cfg)
	require.NoError(t, err)
	require.Equal(t, int64(150), gas) // 100 + ceil(100*0.5)=150, already at cap
	require.Equal(t, int64(300), fee.Amount)
	require.Equal(t, "stake", fee.Denom)
}

func TestEstimateGasAndFeeFallsBackToDefaultGasOnSimulationFailure(t *testing.T) {
	chain := newFakeChain("chainA")
	chain.SimulateErr = context.DeadlineExceeded
	cfg := FeeConfig{DefaultGas: 80, MaxGas: 200, GasAdjustment: 0, GasPriceAmount: 1, GasPriceDenom: "stake"}

	gas, _, err := EstimateGasAndFee(context.Background(), chain, nil, cfg)
	require.NoError(t, err)
	require.Equal(t, int64(80), gas)
}

func TestEstimateGasAndFeeRejectsOverMaxGas(t *testing.T) {
	chain := newFakeChain("chainA")
	chain.SimulateGas = 500
	cfg := FeeConfig{MaxGas: 200}

	_, _, err := EstimateGasAndFee(context.Background(), chain, nil, cfg)
	require.ErrorIs(t, err, ErrGasEstimateExceeded)
}

func TestAccountSequenceAdvancesOnlyOnCodeOk(t *testing.T) {
	var seq AccountSequence
	seq.Set(5)
	require.Equal(t, uint64(5), seq.Current())

	require.False(t, seq.Advance(1))
	require.Equal(t, uint64(5), seq.Current())

	require.True(t, seq.Advance(0))
	require.Equal(t, uint64(6), seq.Current())
}
