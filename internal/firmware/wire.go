package firmware

import (
	"encoding/binary"

	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

// VAP capability actions.
const (
	VAPAdd    uint8 = 1
	VAPDelete uint8 = 2
)

// Operating modes for the VAP capabilities command.
const (
	OpModeSTA uint8 = 1
)

// Key types for the key-load command.
const (
	KeyTypePairwise uint8 = 1
	KeyTypeGroup    uint8 = 2
)

// Aggregation events for the AMPDU params command.
const (
	AMPDURxAddBADone uint8 = 1
	AMPDURxDelBA     uint8 = 2
	AMPDUTxAddBADone uint8 = 3
	AMPDUTxDelBA     uint8 = 4
)

// RX filter words. A set bit blocks the corresponding class of frames;
// the allow-from-peer bits restrict delivery to the associated peer.
const (
	RXFilterAllowAll      uint16 = 0x0000
	RXFilterBlockAll      uint16 = 0xffff
	RXFilterDataAssocPeer uint16 = 0x0001
	RXFilterCtrlAssocPeer uint16 = 0x0002
	RXFilterMgmtAssocPeer uint16 = 0x0004
)

// VAPCapabilitiesRequest encodes an add/remove-capability request.
func VAPCapabilitiesRequest(mode, action uint8) []byte {
	return []byte{mode, action}
}

// ChannelRequest encodes a channel-set request.
func ChannelRequest(ch dot11.Channel, txPower int8) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint16(b[0:2], ch.HWValue)
	binary.LittleEndian.PutUint16(b[2:4], ch.CenterFreq)
	b[4] = uint8(ch.Band)
	b[5] = uint8(ch.Flags)
	b[6] = uint8(txPower)
	return b
}

// RadioParamsRequest encodes a radio-parameter-update request carrying the
// transmit power level and the antenna selection.
func RadioParamsRequest(txPower int8, antenna uint8) []byte {
	return []byte{uint8(txPower), antenna}
}

// RXFilterRequest encodes a receive-filter-set request.
func RXFilterRequest(word uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, word)
	return b
}

// KeyRequest encodes a key-load request. Material may be empty when clearing.
func KeyRequest(keyType, keyIndex uint8, cipher dot11.CipherSuite, material []byte) []byte {
	b := make([]byte, 8, 8+len(material))
	b[0] = keyType
	b[1] = keyIndex
	binary.LittleEndian.PutUint32(b[2:6], uint32(cipher))
	binary.LittleEndian.PutUint16(b[6:8], uint16(len(material)))
	return append(b, material...)
}

// BSSStatusRequest encodes an association-status-inform request.
func BSSStatusRequest(assoc bool, bssid []byte, qos bool, aid uint16) []byte {
	b := make([]byte, 4+dot11.MACAddrLen)
	if assoc {
		b[0] = 1
	}
	if qos {
		b[1] = 1
	}
	binary.LittleEndian.PutUint16(b[2:4], aid)
	copy(b[4:], bssid)
	return b
}

// AMPDURequest encodes a block-ack add/delete request.
func AMPDURequest(tid uint8, ssn uint16, windowSize uint8, event uint8) []byte {
	b := make([]byte, 5)
	b[0] = tid
	binary.LittleEndian.PutUint16(b[1:3], ssn)
	b[3] = windowSize
	b[4] = event
	return b
}

// BlockUnblockRequest encodes a data-queue block/unblock request.
func BlockUnblockRequest(block bool) []byte {
	if block {
		return []byte{1}
	}
	return []byte{0}
}
