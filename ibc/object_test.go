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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectsForEventYieldsOneObjectPerKind(t *testing.T) {
	self := ChainId{Name: "chainA"}

	cases := []struct {
		name string
		ev   IbcEvent
		want ObjectKind
	}{
		{"update client", IbcEvent{Kind: EventUpdateClient, DstChainId: ChainId{Name: "chainB"}, DstClientId: "07-tendermint-0"}, ObjectClient},
		{"open init connection", IbcEvent{Kind: EventOpenInitConnection, DstChainId: ChainId{Name: "chainB"}, SrcConnectionId: "connection-0"}, ObjectConnection},
		{"open try channel", IbcEvent{Kind: EventOpenTryChannel, DstChainId: ChainId{Name: "chainB"}, SrcChannelId: "channel-0", SrcPortId: "transfer"}, ObjectChannel},
		{"send packet", IbcEvent{Kind: EventSendPacket, DstChainId: ChainId{Name: "chainB"}, SrcChannelId: "channel-0", SrcPortId: "transfer", Sequence: 1}, ObjectPacket},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			objs := ObjectsForEvent(self, tc.ev)
			require.Len(t, objs, 1)
			require.Equal(t, tc.want, objs[0].Kind)
		})
	}
}

func TestObjectsForEventUnknownKindYieldsNothing(t *testing.T) {
	self := ChainId{Name: "chainA"}
	objs := ObjectsForEvent(self, IbcEvent{Kind: EventAcknowledgePacket})
	require.Nil(t, objs)
}

func TestObjectEqualityIsByValue(t *testing.T) {
	a := NewPacketObject(ChainId{Name: "chainA"}, ChainId{Name: "chainB"}, "channel-0", "transfer")
	b := NewPacketObject(ChainId{Name: "chainA"}, ChainId{Name: "chainB"}, "channel-0", "transfer")
	c := NewPacketObject(ChainId{Name: "chainA"}, ChainId{Name: "chainB"}, "channel-1", "transfer")

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestShortNameIncludesKindAndChains(t *testing.T) {
	obj := NewChannelObject(ChainId{Name: "chainB"}, ChainId{Name: "chainA"}, "channel-0", "transfer")
	require.Equal(t, "channel/chainA->chainB:transfer/channel-0", obj.ShortName())
}
