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
	"math"
	"sync/atomic"
)

// FeeConfig carries the per-chain gas/fee knobs: default_gas, max_gas,
// gas_adjustment, gas_price, max_msg_num, max_tx_size.
type FeeConfig struct {
	DefaultGas     int64 // 0 means unset; falls back to MaxGas
	MaxGas         int64
	GasAdjustment  float64
	GasPriceAmount float64
	GasPriceDenom  string
	MaxMsgNum      int
	MaxTxSize      int // serialized bytes
}

// Fee is the final amount/denom computed for a submission.
type Fee struct {
	Amount int64
	Denom  string
}

// EstimateGasAndFee simulates a tx, falls back on simulation failure,
// adjusts by gas_adjustment capped at max_gas, then computes the fee.
// Returns ErrGasEstimateExceeded, never a silent truncation, when the
// simulated usage itself is already over max_gas.
func EstimateGasAndFee(ctx context.Context, chain ChainHandle, msgs []Any, cfg FeeConfig) (adjustedGas int64, fee Fee, err error) {
	gasUsed, simErr := chain.SimulateTx(ctx, msgs)
	if simErr != nil {
		gasUsed = cfg.DefaultGas
		if gasUsed == 0 {
			gasUsed = cfg.MaxGas
		}
	}
	if gasUsed > cfg.MaxGas {
		return 0, Fee{}, ErrGasEstimateExceeded
	}

	adjustment := int64(math.Ceil(float64(gasUsed) * cfg.GasAdjustment))
	adjustedGas = gasUsed + adjustment
	if adjustedGas > cfg.MaxGas {
		adjustedGas = cfg.MaxGas
	}

	amount := int64(math.Ceil(float64(adjustedGas) * cfg.GasPriceAmount))
	return adjustedGas, Fee{Amount: amount, Denom: cfg.GasPriceDenom}, nil
}

// messageSize is the serialized byte footprint of an Any-wrapped
// message, used to enforce max_tx_size. However a ChainHandle
// implementation encodes Any.Value, we only need the resulting byte
// length here.
func messageSize(m Any) int {
	return len(m.TypeUrl) + len(m.Value)
}

// BatchMessages splits msgs into sub-batches subject to both maxMsgNum
// and maxTxSize. It preserves order and the concatenation
// of all batches equals msgs. For any maxMsgNum, maxTxSize > 0 no batch
// exceeds either limit; a single oversized message still gets its own
// batch (the limits bound batches, never drop a message).
func BatchMessages(msgs []Any, maxMsgNum, maxTxSize int) [][]Any {
	if maxMsgNum <= 0 {
		maxMsgNum = len(msgs)
		if maxMsgNum == 0 {
			maxMsgNum = 1
		}
	}
	var batches [][]Any
	var cur []Any
	curSize := 0
	flush := func() {
		if len(cur) > 0 {
			batches = append(batches, cur)
			cur = nil
			curSize = 0
		}
	}
	for _, m := range msgs {
		size := messageSize(m)
		if len(cur) > 0 && (len(cur) >= maxMsgNum || (maxTxSize > 0 && curSize+size > maxTxSize)) {
			flush()
		}
		cur = append(cur, m)
		curSize += size
	}
	flush()
	return batches
}

// AccountSequence is a chain's outbound tx sequence counter. It is
// incremented only when a broadcast response carries code Ok, never
// speculatively.
type AccountSequence struct {
	value atomic.Uint64
}

// Set initializes the counter, typically from a fresh account query at
// worker start.
func (s *AccountSequence) Set(v uint64) {
	s.value.Store(v)
}

// Current returns the sequence a new broadcast should use.
func (s *AccountSequence) Current() uint64 {
	return s.value.Load()
}

// Advance increments the counter after a broadcast response with code Ok.
// It is a no-op, returning false, for any other response code.
func (s *AccountSequence) Advance(code uint32) bool {
	const codeOk = 0
	if code != codeOk {
		return false
	}
	s.value.Add(1)
	return true
}
