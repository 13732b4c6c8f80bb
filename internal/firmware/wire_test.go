package firmware

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

func TestChannelRequest(t *testing.T) {
	ch := dot11.Channel{Band: dot11.Band5GHz, CenterFreq: 5260, HWValue: 52, Flags: dot11.ChanRadar}
	b := ChannelRequest(ch, 17)

	require.Len(t, b, 8)
	assert.Equal(t, uint16(52), binary.LittleEndian.Uint16(b[0:2]))
	assert.Equal(t, uint16(5260), binary.LittleEndian.Uint16(b[2:4]))
	assert.Equal(t, uint8(dot11.Band5GHz), b[4])
	assert.Equal(t, uint8(dot11.ChanRadar), b[5])
	assert.Equal(t, uint8(17), b[6])
}

func TestKeyRequest(t *testing.T) {
	material := []byte{1, 2, 3, 4, 5}
	b := KeyRequest(KeyTypePairwise, 2, dot11.CipherCCMP, material)

	require.Len(t, b, 8+len(material))
	assert.Equal(t, KeyTypePairwise, b[0])
	assert.Equal(t, uint8(2), b[1])
	assert.Equal(t, uint32(dot11.CipherCCMP), binary.LittleEndian.Uint32(b[2:6]))
	assert.Equal(t, uint16(5), binary.LittleEndian.Uint16(b[6:8]))
	assert.Equal(t, material, b[8:])
}

func TestKeyRequestCleared(t *testing.T) {
	b := KeyRequest(KeyTypeGroup, 0, dot11.CipherNone, nil)
	require.Len(t, b, 8)
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(b[6:8]))
}

func TestBSSStatusRequest(t *testing.T) {
	bssid := []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	b := BSSStatusRequest(true, bssid, true, 7)

	require.Len(t, b, 10)
	assert.Equal(t, uint8(1), b[0])
	assert.Equal(t, uint8(1), b[1])
	assert.Equal(t, uint16(7), binary.LittleEndian.Uint16(b[2:4]))
	assert.Equal(t, bssid, b[4:10])

	b = BSSStatusRequest(false, bssid, false, 0)
	assert.Equal(t, uint8(0), b[0])
	assert.Equal(t, uint8(0), b[1])
}

func TestAMPDURequest(t *testing.T) {
	b := AMPDURequest(5, 100, 6, AMPDUTxAddBADone)

	require.Len(t, b, 5)
	assert.Equal(t, uint8(5), b[0])
	assert.Equal(t, uint16(100), binary.LittleEndian.Uint16(b[1:3]))
	assert.Equal(t, uint8(6), b[3])
	assert.Equal(t, AMPDUTxAddBADone, b[4])
}

func TestBlockUnblockRequest(t *testing.T) {
	assert.Equal(t, []byte{1}, BlockUnblockRequest(true))
	assert.Equal(t, []byte{0}, BlockUnblockRequest(false))
}

func TestVAPCapabilitiesRequest(t *testing.T) {
	assert.Equal(t, []byte{OpModeSTA, VAPAdd}, VAPCapabilitiesRequest(OpModeSTA, VAPAdd))
	assert.Equal(t, []byte{OpModeSTA, VAPDelete}, VAPCapabilitiesRequest(OpModeSTA, VAPDelete))
}
