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
	"sync/atomic"
)

// fakeChain is an in-memory ChainHandle used across the package's tests,
// standing in for the networked chainclient.Client the real engine talks
// to. Every response is pre-programmed; callers mutate the exported
// fields before exercising the code under test.
type fakeChain struct {
	id ChainId

	mu sync.Mutex

	LatestHeight    Height
	LatestHeightErr error

	ClientStateVal ClientState
	ClientStateErr error

	ConnectionVal ConnectionEnd
	ConnectionErr error

	ChannelVal ChannelEnd
	ChannelErr error

	QueryTxsEvents []IbcEvent
	QueryTxsErr    error

	SubscribeBatches []EventBatch

	BuildHeaderVal    Header
	BuildHeaderSupp   []Header
	BuildHeaderErr    error

	SimulateGas int64
	SimulateErr error

	SendCommitEvents []IbcEvent
	SendCommitErr    error

	SendCheckTxResps []TxResponse
	SendCheckTxErr   error

	sendCommitCalls int32
	sendCheckCalls  int32
}

func newFakeChain(name string) *fakeChain {
	return &fakeChain{id: ChainId{Name: name}}
}

func (f *fakeChain) Id() ChainId { return f.id }

func (f *fakeChain) QueryLatestHeight(ctx context.Context) (Height, error) {
	return f.LatestHeight, f.LatestHeightErr
}

func (f *fakeChain) QueryClientState(ctx context.Context, id ClientId, height Height) (ClientState, error) {
	return f.ClientStateVal, f.ClientStateErr
}

func (f *fakeChain) QueryConnection(ctx context.Context, id ConnectionId, height Height) (ConnectionEnd, error) {
	return f.ConnectionVal, f.ConnectionErr
}

func (f *fakeChain) QueryChannel(ctx context.Context, port PortId, channel ChannelId, height Height) (ChannelEnd, error) {
	return f.ChannelVal, f.ChannelErr
}

func (f *fakeChain) QueryTxs(ctx context.Context, req TxsQuery) ([]IbcEvent, error) {
	return f.QueryTxsEvents, f.QueryTxsErr
}

func (f *fakeChain) Subscribe(ctx context.Context) (<-chan EventBatch, error) {
	out := make(chan EventBatch, len(f.SubscribeBatches))
	for _, b := range f.SubscribeBatches {
		out <- b
	}
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}

func (f *fakeChain) BuildHeader(ctx context.Context, trusted, target Height, client ClientState) (Header, []Header, error) {
	return f.BuildHeaderVal, f.BuildHeaderSupp, f.BuildHeaderErr
}

func (f *fakeChain) SendMessagesAndWaitCommit(ctx context.Context, msgs []Any) ([]IbcEvent, error) {
	atomic.AddInt32(&f.sendCommitCalls, 1)
	return f.SendCommitEvents, f.SendCommitErr
}

func (f *fakeChain) SendMessagesAndWaitCheckTx(ctx context.Context, msgs []Any) ([]TxResponse, error) {
	atomic.AddInt32(&f.sendCheckCalls, 1)
	return f.SendCheckTxResps, f.SendCheckTxErr
}

func (f *fakeChain) SimulateTx(ctx context.Context, msgs []Any) (int64, error) {
	return f.SimulateGas, f.SimulateErr
}

var _ ChainHandle = (*fakeChain)(nil)
