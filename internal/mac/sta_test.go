package mac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlan-bridge/wlan-bridge/internal/firmware"
	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

func TestStaAddLegacyMinRate(t *testing.T) {
	d, _, host := newTestDevice(t)
	iface := addStation(t, d)

	// Fixed mask allows 5.5 and 11 Mbps; the peer supports everything. The
	// lowest common legacy rate wins.
	require.NoError(t, d.SetBitrateMask(BitrateMask{Legacy: 0x0c}))

	sta := &Station{Addr: peerAddr}
	sta.SupportedRates[dot11.Band2GHz] = 0xfff
	require.NoError(t, d.StaAdd(iface, sta))

	assert.Equal(t, dot11.RateHW5_5, d.Snapshot().MinRate)
	assert.Empty(t, host.baRequested)
}

func TestStaAddMCSMinRate(t *testing.T) {
	d, _, host := newTestDevice(t)
	iface := addStation(t, d)

	// All-legacy mask selects the HT MCS set instead: MCS 2 is the lowest
	// bit in the fixed selection.
	require.NoError(t, d.SetBitrateMask(BitrateMask{Legacy: 0xfff, MCS: 0x0c}))

	sta := &Station{Addr: peerAddr, HTSupported: true, ShortGI20: true}
	sta.SupportedRates[dot11.Band2GHz] = 0xfff | 0xff<<12
	require.NoError(t, d.StaAdd(iface, sta))

	assert.Equal(t, dot11.MCSRates[2], d.Snapshot().MinRate)

	// An HT peer kicks off a TX block-ack session on tid 0.
	require.Len(t, host.baRequested, 1)
	assert.Equal(t, baEvent{Addr: peerAddr, TID: 0}, host.baRequested[0])
}

func TestStaAddNoCommonRate(t *testing.T) {
	d, _, _ := newTestDevice(t)
	iface := addStation(t, d)

	require.NoError(t, d.SetBitrateMask(BitrateMask{Legacy: 0x003}))

	sta := &Station{Addr: peerAddr}
	sta.SupportedRates[dot11.Band2GHz] = 0xff0
	require.NoError(t, d.StaAdd(iface, sta))

	assert.Equal(t, dot11.InvalidRate, d.Snapshot().MinRate)
}

func TestStaRemoveResetsNegotiatedState(t *testing.T) {
	d, ch, _ := newTestDevice(t)
	iface := addStation(t, d)

	require.NoError(t, d.SetBitrateMask(BitrateMask{Legacy: 0x0c}))
	sta := &Station{Addr: peerAddr, HTSupported: true}
	sta.SupportedRates[dot11.Band2GHz] = 0xfff
	require.NoError(t, d.StaAdd(iface, sta))

	key := &KeyConf{Cipher: dot11.CipherCCMP, Pairwise: true, Material: []byte{1, 2, 3}}
	require.NoError(t, d.SetKey(context.Background(), KeySet, key))
	ch.reset()

	require.NoError(t, d.StaRemove(context.Background(), iface, sta))

	snap := d.Snapshot()
	assert.Equal(t, dot11.InvalidRate, snap.MinRate)
	assert.Equal(t, uint32(dot11.CipherNone), snap.PairwiseCipher)
	assert.Equal(t, uint32(dot11.CipherNone), snap.GroupCipher)

	filters := ch.callsFor(firmware.OpRXFilterSet)
	require.Len(t, filters, 1)
	assert.Equal(t, firmware.RXFilterRequest(firmware.RXFilterAllowAll), filters[0].Payload)
}
