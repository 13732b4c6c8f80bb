package dot11

import "encoding/binary"

// Frame control field layout (little-endian uint16 at the head of every
// MAC header).
const (
	fcTypeMask    = 0x000c
	fcTypeMgmt    = 0x0000
	fcTypeCtrl    = 0x0004
	fcTypeData    = 0x0008
	fcSubtypeMask = 0x00f0
	fcToDS        = 0x0100
	fcFromDS      = 0x0200
	fcProtected   = 0x4000

	fcSubtypeBeacon = 0x0080
	fcSubtypeQoS    = 0x0080 // QoS bit within the data subtype field
)

// MACAddrLen is the length of a MAC address.
const MACAddrLen = 6

// FrameControl extracts the frame control field from a raw frame. Returns 0
// for frames too short to carry one.
func FrameControl(frame []byte) uint16 {
	if len(frame) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(frame)
}

// IsProtected reports whether the Protected Frame bit is set.
func IsProtected(fc uint16) bool {
	return fc&fcProtected != 0
}

// IsBeacon reports whether the frame is a beacon.
func IsBeacon(fc uint16) bool {
	return fc&fcTypeMask == fcTypeMgmt && fc&fcSubtypeMask == fcSubtypeBeacon
}

// IsData reports whether the frame carries a data payload.
func IsData(fc uint16) bool {
	return fc&fcTypeMask == fcTypeData
}

// HeaderLen returns the MAC header length implied by the frame control
// field. Control frames are not resolved further than the common cases the
// receive path sees.
func HeaderLen(fc uint16) int {
	switch fc & fcTypeMask {
	case fcTypeData:
		n := 24
		if fc&(fcToDS|fcFromDS) == fcToDS|fcFromDS {
			n += MACAddrLen // 4-address format
		}
		if fc&fcSubtypeQoS != 0 {
			n += 2 // QoS control
		}
		return n
	case fcTypeCtrl:
		return 16
	default:
		return 24
	}
}

// Addr2 returns the transmitter address of a frame, or nil if the frame is
// too short.
func Addr2(frame []byte) []byte {
	if len(frame) < 10+MACAddrLen {
		return nil
	}
	return frame[10 : 10+MACAddrLen]
}
