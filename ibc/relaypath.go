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
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/r5-labs/relayer/log"
)

// RelayPathConfig carries the per-direction knobs the PacketWorker wires
// in from config: the mode.packets section and per-chain fee fields.
type RelayPathConfig struct {
	Fee           FeeConfig
	ClearInterval uint64 // 0 disables periodic clearing, but not clear_on_start
	ClearOnStart  bool
	ConnDelay     time.Duration
}

// RelayPath is one direction (A->B) of a Link's packet relaying
// schedule. It holds two FIFOs and a pending-tx set; mutation is
// serialized by a reader/writer lock: readers (schedule inspection) may
// run concurrently, writers (enqueue, dequeue) are mutually exclusive.
type RelayPath struct {
	SrcChain ChainHandle
	DstChain ChainHandle
	DstClientId ClientId
	PortId    PortId
	ChannelId ChannelId

	cfg RelayPathConfig
	log log.Logger

	mu                 sync.RWMutex
	srcOperationalData fifo
	dstOperationalData fifo
	pendingTxs         map[string]*OperationalData
	pendingKeys        mapset.Set[DedupeKey]

	clearedOnce      bool
	clearingInFlight bool
	lastClearHeight  uint64

	seq AccountSequence
}

// NewRelayPath constructs the schedule for one direction, created when a
// Link is opened for a channel.
func NewRelayPath(src, dst ChainHandle, dstClient ClientId, port PortId, channel ChannelId, cfg RelayPathConfig) *RelayPath {
	return &RelayPath{
		SrcChain:    src,
		DstChain:    dst,
		DstClientId: dstClient,
		PortId:      port,
		ChannelId:   channel,
		cfg:         cfg,
		log:         log.New("dir", string(channel)+"->"+dst.Id().String()),
		pendingTxs:  make(map[string]*OperationalData),
		pendingKeys: mapset.NewSet[DedupeKey](),
	}
}

// --- Phase 1: update_schedule ---

// UpdateSchedule partitions an EventBatch from SrcChain into messages
// destined for src and dst, prepending a MsgUpdateClient to the dst group
// at the batch height, then appends one OperationalData per non-empty
// group to the matching FIFO. Replaying the same batch twice is a no-op
// on the second call (duplicate suppression).
func (p *RelayPath) UpdateSchedule(batch EventBatch) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var dstMsgs []Any
	var dstKeys []DedupeKey
	for _, ev := range batch.Events {
		if !isDstBoundEvent(ev.Kind) {
			continue // no src-bound events in the default flow
		}
		key := ev.dedupeKey()
		if p.isDuplicate(key) {
			continue
		}
		dstMsgs = append(dstMsgs, eventToMsg(ev))
		dstKeys = append(dstKeys, key)
	}
	if len(dstMsgs) == 0 {
		return
	}

	updateClientMsg := Any{TypeUrl: "/ibc.core.client.v1.MsgUpdateClient"}
	msgs := append([]Any{updateClientMsg}, dstMsgs...)

	data := &OperationalData{
		Target:        TargetDestination,
		ProofsHeight:  batch.Height,
		ScheduledTime: time.Now(),
		Messages:      msgs,
		Keys:          dstKeys,
	}
	if p.cfg.ConnDelay > 0 {
		deadline := time.Now().Add(p.cfg.ConnDelay)
		data.ConnDelayDeadline = &deadline
	} else {
		data.ready = true
	}
	p.dstOperationalData.push(data)
	for _, k := range dstKeys {
		p.pendingKeys.Add(k)
	}
}

func (p *RelayPath) isDuplicate(key DedupeKey) bool {
	if p.pendingKeys.Contains(key) {
		return true
	}
	return p.srcOperationalData.containsKey(key) || p.dstOperationalData.containsKey(key)
}

func isDstBoundEvent(k EventKind) bool {
	switch k {
	case EventSendPacket, EventWriteAcknowledgement, EventTimeoutPacket:
		return true
	default:
		return false
	}
}

func eventToMsg(ev IbcEvent) Any {
	switch ev.Kind {
	case EventSendPacket:
		return Any{TypeUrl: "/ibc.core.channel.v1.MsgRecvPacket"}
	case EventWriteAcknowledgement:
		return Any{TypeUrl: "/ibc.core.channel.v1.MsgAcknowledgement"}
	case EventTimeoutPacket:
		return Any{TypeUrl: "/ibc.core.channel.v1.MsgTimeout"}
	default:
		return Any{}
	}
}

// --- Phase 2: refresh_schedule ---

// RefreshSchedule walks dstOperationalData; entries whose connection delay
// deadline has now passed are marked ready, and entries whose proofs are
// older than the dst client's trusted height get their MsgUpdateClient
// retargeted to a fresher height.
func (p *RelayPath) RefreshSchedule(ctx context.Context) *taskOutcome {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	for _, d := range p.dstOperationalData.items {
		if !d.ready && d.ConnDelayDeadline != nil && !now.Before(*d.ConnDelayDeadline) {
			d.ready = true
		}
	}

	state, err := p.DstChain.QueryClientState(ctx, p.DstClientId, ZeroHeight)
	if err != nil {
		return errIgnore(err)
	}
	for _, d := range p.dstOperationalData.items {
		if d.ready && d.ProofsHeight.Less(state.LatestHeight) {
			latest, err := p.SrcChain.QueryLatestHeight(ctx)
			if err == nil {
				d.ProofsHeight = latest
			}
		}
	}
	return nil
}

// --- Phase 3: execute_schedule ---

// ExecuteSchedule dequeues ready entries from dstOperationalData in FIFO
// order, estimates gas, signs and broadcasts. On Retryable failure the
// entry is reinserted at the head and ExecuteSchedule returns
// immediately.
func (p *RelayPath) ExecuteSchedule(ctx context.Context) *taskOutcome {
	for {
		p.mu.Lock()
		data, ok := p.dstOperationalData.peekFront()
		if !ok || !data.ready {
			p.mu.Unlock()
			return nil
		}
		p.dstOperationalData.popFront()
		p.mu.Unlock()

		if err := p.submit(ctx, data); err != nil {
			if IsRetryable(err) {
				p.log.Warn("submission failed, retrying", "err", err)
				p.mu.Lock()
				p.dstOperationalData.pushFront(data)
				p.mu.Unlock()
				return nil
			}
			if asValidation(err) {
				p.log.Warn("dropping invalid operational data", "err", err)
				p.mu.Lock()
				for _, k := range data.Keys {
					p.pendingKeys.Remove(k)
				}
				p.mu.Unlock()
				continue
			}
			return errFatal(err)
		}
	}
}

func (p *RelayPath) submit(ctx context.Context, data *OperationalData) error {
	_, fee, err := EstimateGasAndFee(ctx, p.DstChain, data.Messages, p.cfg.Fee)
	if err != nil {
		return newChainError(ChainErrorValidation, err)
	}
	_ = fee

	batches := BatchMessages(data.Messages, p.cfg.Fee.MaxMsgNum, p.cfg.Fee.MaxTxSize)
	for _, batch := range batches {
		resps, err := p.DstChain.SendMessagesAndWaitCheckTx(ctx, batch)
		if err != nil {
			return err
		}
		for _, r := range resps {
			if p.seq.Advance(r.Code) {
				p.mu.Lock()
				p.pendingTxs[r.TxHash] = data
				p.mu.Unlock()
			}
		}
	}
	return nil
}

func asValidation(err error) bool {
	var ce *ChainError
	return asChainError(err, &ce) && ce.Kind == ChainErrorValidation
}

// --- Phase 4: process_pending_txs ---

// ReverseFeeder is implemented by the counterpart RelayPath of a Link so
// process_pending_txs can feed extracted events back as update_schedule
// input to the reverse direction.
type ReverseFeeder interface {
	UpdateSchedule(batch EventBatch)
}

// ProcessPendingTxs runs one QueryTxs on DstChain for the owned channel
// and port per pending tx hash, and feeds any returned IbcEvents to
// reverse's schedule so acknowledgements and timeouts relay back. The
// query is not filtered by tx hash and commit status is not checked: a
// hash is removed from pendingTxs after any successful query.
func (p *RelayPath) ProcessPendingTxs(ctx context.Context, reverse ReverseFeeder) *taskOutcome {
	p.mu.RLock()
	hashes := make([]string, 0, len(p.pendingTxs))
	for h := range p.pendingTxs {
		hashes = append(hashes, h)
	}
	p.mu.RUnlock()

	for _, h := range hashes {
		events, err := p.DstChain.QueryTxs(ctx, TxsQuery{ChannelId: p.ChannelId, PortId: p.PortId})
		if err != nil {
			continue // Ignore: next pass retries
		}
		height, _ := p.DstChain.QueryLatestHeight(ctx)
		p.mu.Lock()
		delete(p.pendingTxs, h)
		p.mu.Unlock()
		if len(events) > 0 {
			reverse.UpdateSchedule(EventBatch{ChainId: p.DstChain.Id(), Height: height, Events: events})
		}
	}
	return nil
}

// --- Clearing ---

// SchedulePacketClearing queries SrcChain for unreceived packets and
// unrelayed acks on the owned channel and enqueues them.
// At most one clearing is in flight per direction; when force is false
// and ClearedOnce is already true, clearing is skipped unless
// ClearInterval blocks have elapsed since the last clearing at the given
// height. Height is optional: nil means "use the latest height."
func (p *RelayPath) SchedulePacketClearing(ctx context.Context, height *Height, force bool) *taskOutcome {
	p.mu.Lock()
	if p.clearingInFlight {
		p.mu.Unlock()
		return nil
	}
	p.clearingInFlight = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.clearingInFlight = false
		p.mu.Unlock()
	}()

	h := ZeroHeight
	if height != nil {
		h = *height
	}

	if !force && p.clearedOnceSnapshot() {
		if p.cfg.ClearInterval == 0 {
			return nil
		}
		if !clearIntervalElapsed(h.RevisionHeight, p.lastClearHeightSnapshot(), p.cfg.ClearInterval) {
			return nil
		}
	}

	events, err := p.SrcChain.QueryTxs(ctx, TxsQuery{ChannelId: p.ChannelId, PortId: p.PortId, MinHeight: h})
	if err != nil {
		return errIgnore(err)
	}

	p.UpdateSchedule(EventBatch{ChainId: p.SrcChain.Id(), Height: h, Events: events})

	p.mu.Lock()
	p.clearedOnce = true
	p.lastClearHeight = h.RevisionHeight
	p.mu.Unlock()
	return nil
}

func (p *RelayPath) clearedOnceSnapshot() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clearedOnce
}

func (p *RelayPath) lastClearHeightSnapshot() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastClearHeight
}

// clearIntervalElapsed reports whether at least interval blocks have
// passed since lastHeight. An earlier draft of this check computed the
// tautology `height % height == 0`, which is true for every height and
// fires on every single block; the form used here is
// `height - lastHeight >= interval`, so clearing fires at most once every
// interval blocks (see relaypath_test.go's regression test for the
// rejected tautological form).
func clearIntervalElapsed(height, lastHeight, interval uint64) bool {
	if interval == 0 {
		return false
	}
	if height < lastHeight {
		return false
	}
	return height-lastHeight >= interval
}

// Lengths exposes queue depths for diagnostics and tests.
func (p *RelayPath) Lengths() (src, dst, pending int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.srcOperationalData.len(), p.dstOperationalData.len(), len(p.pendingTxs)
}
