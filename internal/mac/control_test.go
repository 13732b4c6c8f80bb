package mac

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlan-bridge/wlan-bridge/internal/firmware"
	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

func chanByHW(t *testing.T, band dot11.Band, hw uint16) dot11.Channel {
	t.Helper()
	for _, ch := range dot11.ChannelTable(band) {
		if ch.HWValue == hw {
			return ch
		}
	}
	t.Fatalf("no channel %d on band %s", hw, band)
	return dot11.Channel{}
}

func TestAttachIssuesHandshakeCommands(t *testing.T) {
	ch := newFakeChannel()
	d := New(ch, &fakeHost{}, Config{MACAddr: testMAC})

	require.NoError(t, d.Attach(context.Background()))
	assert.Equal(t, []firmware.Opcode{
		firmware.OpPowerInfoQuery,
		firmware.OpMuxStateQuery,
		firmware.OpPortControl,
	}, ch.opSequence())

	assert.Error(t, d.Attach(context.Background()))
}

func TestAddInterface(t *testing.T) {
	d, ch, _ := newTestDevice(t)

	iface, err := d.AddInterface(context.Background(), InterfaceTypeStation)
	require.NoError(t, err)
	require.NotNil(t, iface)

	calls := ch.callsFor(firmware.OpVAPCapabilities)
	require.Len(t, calls, 1)
	assert.Equal(t, []byte{firmware.OpModeSTA, firmware.VAPAdd}, calls[0].Payload)
}

func TestAddInterfaceRejectsNonStation(t *testing.T) {
	d, ch, _ := newTestDevice(t)

	_, err := d.AddInterface(context.Background(), InterfaceTypeAP)
	assert.ErrorIs(t, err, ErrUnsupportedInterfaceType)
	assert.Empty(t, ch.callsFor(firmware.OpVAPCapabilities))
}

func TestAddSecondInterfaceAlwaysFails(t *testing.T) {
	d, _, _ := newTestDevice(t)

	first, err := d.AddInterface(context.Background(), InterfaceTypeStation)
	require.NoError(t, err)

	// The failure kind is the same generic unsupported code the legacy
	// surface reported for a bad interface type.
	_, err = d.AddInterface(context.Background(), InterfaceTypeStation)
	assert.ErrorIs(t, err, ErrUnsupportedInterfaceType)

	snap := d.Snapshot()
	require.NotNil(t, snap.Interface)
	assert.Equal(t, first.ID.String(), snap.Interface.ID)
}

func TestAddInterfaceCacheUnchangedOnCommandFailure(t *testing.T) {
	d, ch, _ := newTestDevice(t)
	ch.fail[firmware.OpVAPCapabilities] = firmware.ErrCommandFailed

	_, err := d.AddInterface(context.Background(), InterfaceTypeStation)
	assert.ErrorIs(t, err, firmware.ErrCommandFailed)
	assert.Nil(t, d.Snapshot().Interface)
}

func TestRemoveInterface(t *testing.T) {
	d, ch, _ := newTestDevice(t)
	iface := addStation(t, d)
	ch.reset()

	require.NoError(t, d.RemoveInterface(context.Background(), iface))

	calls := ch.callsFor(firmware.OpVAPCapabilities)
	require.Len(t, calls, 1)
	assert.Equal(t, []byte{firmware.OpModeSTA, firmware.VAPDelete}, calls[0].Payload)
	assert.Nil(t, d.Snapshot().Interface)
}

func TestRemoveNonMatchingInterfaceLeavesStored(t *testing.T) {
	d, _, _ := newTestDevice(t)
	iface := addStation(t, d)

	other := &Interface{ID: iface.ID, Type: InterfaceTypeStation}
	other.ID[0] ^= 0xff

	require.NoError(t, d.RemoveInterface(context.Background(), other))

	snap := d.Snapshot()
	require.NotNil(t, snap.Interface)
	assert.Equal(t, iface.ID.String(), snap.Interface.ID)
}

func TestStartStopFilterWords(t *testing.T) {
	d, ch, _ := newTestDevice(t)

	require.NoError(t, d.Start(context.Background()))
	calls := ch.callsFor(firmware.OpRXFilterSet)
	require.Len(t, calls, 1)
	assert.Equal(t, firmware.RXFilterRequest(firmware.RXFilterAllowAll), calls[0].Payload)

	d.Stop(context.Background())
	calls = ch.callsFor(firmware.OpRXFilterSet)
	require.Len(t, calls, 2)
	assert.Equal(t, firmware.RXFilterRequest(firmware.RXFilterBlockAll), calls[1].Payload)
	assert.True(t, d.Snapshot().InterfaceDown)
}

func TestStartSucceedsWhenFilterFails(t *testing.T) {
	d, ch, _ := newTestDevice(t)
	ch.fail[firmware.OpRXFilterSet] = firmware.ErrCommandFailed

	assert.NoError(t, d.Start(context.Background()))
	assert.False(t, d.Snapshot().InterfaceDown)

	d.Stop(context.Background())
	assert.True(t, d.Snapshot().InterfaceDown)
}

func associate(t *testing.T, d *Device, channelHW uint16) {
	t.Helper()
	err := d.BSSInfoChanged(context.Background(), BSSChangedAssoc, BSSConf{
		Assoc:     true,
		BSSID:     [6]byte{2, 2, 2, 2, 2, 2},
		QoS:       true,
		AID:       1,
		ChannelHW: channelHW,
	})
	require.NoError(t, err)
}

func TestChannelChangeWhileAssociatedBlocksQueues(t *testing.T) {
	d, ch, _ := newTestDevice(t)
	addStation(t, d)
	associate(t, d, 1)
	ch.reset()

	// Switch away from the connected channel: block precedes the set.
	err := d.Configure(context.Background(), ConfChangedChannel, Conf{Channel: chanByHW(t, dot11.Band2GHz, 6)})
	require.NoError(t, err)

	seq := ch.opSequence()
	require.Len(t, seq, 2)
	assert.Equal(t, firmware.OpBlockUnblock, seq[0])
	assert.Equal(t, firmware.OpChannelSet, seq[1])
	blocks := ch.callsFor(firmware.OpBlockUnblock)
	assert.Equal(t, []byte{1}, blocks[0].Payload)
	assert.True(t, d.Snapshot().DataQueuesBlocked)

	// Switching back to the connected channel unblocks after the set.
	ch.reset()
	err = d.Configure(context.Background(), ConfChangedChannel, Conf{Channel: chanByHW(t, dot11.Band2GHz, 1)})
	require.NoError(t, err)

	seq = ch.opSequence()
	require.Len(t, seq, 2)
	assert.Equal(t, firmware.OpChannelSet, seq[0])
	assert.Equal(t, firmware.OpBlockUnblock, seq[1])
	blocks = ch.callsFor(firmware.OpBlockUnblock)
	assert.Equal(t, []byte{0}, blocks[0].Payload)
	assert.False(t, d.Snapshot().DataQueuesBlocked)
}

func TestChannelChangeToNewChannelLeavesQueuesBlocked(t *testing.T) {
	d, _, _ := newTestDevice(t)
	addStation(t, d)
	associate(t, d, 1)

	err := d.Configure(context.Background(), ConfChangedChannel, Conf{Channel: chanByHW(t, dot11.Band2GHz, 6)})
	require.NoError(t, err)
	assert.True(t, d.Snapshot().DataQueuesBlocked)

	// Still not the connected channel: stays blocked.
	err = d.Configure(context.Background(), ConfChangedChannel, Conf{Channel: chanByHW(t, dot11.Band2GHz, 11)})
	require.NoError(t, err)
	assert.True(t, d.Snapshot().DataQueuesBlocked)
}

func TestChannelChangeUnblocksWhenNotAssociated(t *testing.T) {
	d, ch, _ := newTestDevice(t)
	addStation(t, d)
	associate(t, d, 1)

	err := d.Configure(context.Background(), ConfChangedChannel, Conf{Channel: chanByHW(t, dot11.Band2GHz, 6)})
	require.NoError(t, err)
	require.True(t, d.Snapshot().DataQueuesBlocked)

	// Disassociate, then change channels: the leftover block is released.
	err = d.BSSInfoChanged(context.Background(), BSSChangedAssoc, BSSConf{Assoc: false})
	require.NoError(t, err)
	ch.reset()

	err = d.Configure(context.Background(), ConfChangedChannel, Conf{Channel: chanByHW(t, dot11.Band2GHz, 11)})
	require.NoError(t, err)
	assert.False(t, d.Snapshot().DataQueuesBlocked)
}

func TestChannelChangeUnsupportedBand(t *testing.T) {
	d, ch, _ := newTestDevice(t)
	addStation(t, d)
	ch.reset()

	bad := dot11.Channel{Band: dot11.NumBands, HWValue: 1}
	err := d.Configure(context.Background(), ConfChangedChannel, Conf{Channel: bad})
	assert.ErrorIs(t, err, ErrBandUnsupported)
	assert.Empty(t, ch.callsFor(firmware.OpChannelSet))

	unknown := dot11.Channel{Band: dot11.Band2GHz, HWValue: 99}
	err = d.Configure(context.Background(), ConfChangedChannel, Conf{Channel: unknown})
	assert.ErrorIs(t, err, ErrBandUnsupported)
}

func TestChannelCacheMovesOnlyOnSuccess(t *testing.T) {
	d, ch, _ := newTestDevice(t)
	addStation(t, d)

	require.NoError(t, d.Configure(context.Background(), ConfChangedChannel,
		Conf{Channel: chanByHW(t, dot11.Band2GHz, 6)}))
	require.NotNil(t, d.Snapshot().Channel)
	require.Equal(t, uint16(6), d.Snapshot().Channel.HWValue)

	ch.fail[firmware.OpChannelSet] = firmware.ErrCommandFailed
	err := d.Configure(context.Background(), ConfChangedChannel,
		Conf{Channel: chanByHW(t, dot11.Band2GHz, 11)})
	assert.ErrorIs(t, err, firmware.ErrCommandFailed)
	assert.Equal(t, uint16(6), d.Snapshot().Channel.HWValue)
}

func TestConfigPower(t *testing.T) {
	d, ch, _ := newTestDevice(t)

	// No interface yet.
	err := d.Configure(context.Background(), ConfChangedPower, Conf{PowerLevel: 17})
	assert.ErrorIs(t, err, ErrNoActiveInterface)

	addStation(t, d)
	ch.reset()

	require.NoError(t, d.Configure(context.Background(), ConfChangedPower, Conf{PowerLevel: 17}))
	require.Len(t, ch.callsFor(firmware.OpRadioParamsUpdate), 1)
	assert.Equal(t, int8(17), d.Snapshot().TxPower)

	// Same level again is a no-op.
	require.NoError(t, d.Configure(context.Background(), ConfChangedPower, Conf{PowerLevel: 17}))
	assert.Len(t, ch.callsFor(firmware.OpRadioParamsUpdate), 1)
}

func TestConfigPowerCacheUnchangedOnFailure(t *testing.T) {
	d, ch, _ := newTestDevice(t)
	addStation(t, d)
	ch.fail[firmware.OpRadioParamsUpdate] = firmware.ErrCommandFailed

	err := d.Configure(context.Background(), ConfChangedPower, Conf{PowerLevel: 17})
	assert.ErrorIs(t, err, firmware.ErrCommandFailed)
	assert.Equal(t, int8(0), d.Snapshot().TxPower)
}

func TestBSSInfoChangedAssociate(t *testing.T) {
	d, ch, _ := newTestDevice(t)
	addStation(t, d)
	ch.reset()

	associate(t, d, 6)

	filters := ch.callsFor(firmware.OpRXFilterSet)
	require.Len(t, filters, 1)
	want := firmware.RXFilterDataAssocPeer | firmware.RXFilterCtrlAssocPeer | firmware.RXFilterMgmtAssocPeer
	assert.Equal(t, firmware.RXFilterRequest(want), filters[0].Payload)

	informs := ch.callsFor(firmware.OpBSSStatusInform)
	require.Len(t, informs, 1)
	assert.Equal(t, uint8(1), informs[0].Payload[0])

	snap := d.Snapshot()
	assert.True(t, snap.Associated)
	assert.Equal(t, uint16(6), snap.ConnectedChannel)
}

func TestBSSInfoChangedDisassociateSkipsFilter(t *testing.T) {
	d, ch, _ := newTestDevice(t)
	addStation(t, d)
	associate(t, d, 6)
	ch.reset()

	err := d.BSSInfoChanged(context.Background(), BSSChangedAssoc, BSSConf{Assoc: false})
	require.NoError(t, err)

	// Status inform fires on both transitions; the peer filter only on
	// associate.
	assert.Empty(t, ch.callsFor(firmware.OpRXFilterSet))
	assert.Len(t, ch.callsFor(firmware.OpBSSStatusInform), 1)
	assert.False(t, d.Snapshot().Associated)
}

func TestBSSInfoChangedPropagatesInformFailure(t *testing.T) {
	d, ch, _ := newTestDevice(t)
	addStation(t, d)
	ch.fail[firmware.OpBSSStatusInform] = errors.New("timeout")

	err := d.BSSInfoChanged(context.Background(), BSSChangedAssoc, BSSConf{Assoc: true})
	assert.Error(t, err)
}

func TestDetachStopsDelivery(t *testing.T) {
	d, _, host := newTestDevice(t)
	addStation(t, d)

	d.Detach(context.Background())

	d.DeliverReceivedFrame(make([]byte, 24), RxParams{RSSI: 40, Channel: 1})
	assert.Empty(t, host.frames)

	snap := d.Snapshot()
	assert.False(t, snap.Attached)
	assert.Nil(t, snap.Interface)
	assert.Equal(t, uint64(1), snap.RxDropped)
}
