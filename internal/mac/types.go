package mac

import (
	"github.com/google/uuid"

	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

// InterfaceType is the kind of virtual interface the host stack asks for.
type InterfaceType uint8

const (
	InterfaceTypeStation InterfaceType = iota
	InterfaceTypeAP
	InterfaceTypeMonitor
)

func (t InterfaceType) String() string {
	switch t {
	case InterfaceTypeStation:
		return "station"
	case InterfaceTypeAP:
		return "ap"
	case InterfaceTypeMonitor:
		return "monitor"
	}
	return "unknown"
}

// Interface is one virtual interface on the radio. The device supports a
// single active station interface.
type Interface struct {
	ID   uuid.UUID
	Type InterfaceType
}

// ConfChanged flags which parts of the hardware configuration changed.
type ConfChanged uint32

const (
	ConfChangedChannel ConfChanged = 1 << iota
	ConfChangedPower
)

// Conf is the hardware configuration the host stack pushes via Configure.
type Conf struct {
	Channel    dot11.Channel
	PowerLevel int8 // dBm
}

// BSSChanged flags which BSS parameters changed.
type BSSChanged uint32

const (
	BSSChangedAssoc BSSChanged = 1 << iota
	BSSChangedCQM
)

// BSSConf is the host stack's view of the BSS, pushed via BSSInfoChanged.
type BSSConf struct {
	Assoc     bool
	BSSID     [dot11.MACAddrLen]byte
	QoS       bool
	AID       uint16
	ChannelHW uint16 // channel of the BSS we are (dis)associating with

	CQMThreshold  int // dBm
	CQMHysteresis int // dB
}

// TxQueueParams is one EDCA parameter set.
type TxQueueParams struct {
	AIFS  uint8
	CWMin uint16
	CWMax uint16
	TXOp  uint16
}

// FilterFlags is the host stack's receive-filter request word.
type FilterFlags uint32

const (
	FilterAllMulti FilterFlags = 1 << iota
	FilterProbeReq
	FilterBeaconPromisc
	FilterControl
	FilterOtherBSS
	FilterPSPoll
)

// SupportedFilters is the subset of filter flags the hardware honors;
// ConfigureFilter intersects every request with it.
const SupportedFilters = FilterAllMulti | FilterProbeReq | FilterBeaconPromisc

// KeyCommand selects the set_key operation.
type KeyCommand uint8

const (
	KeySet KeyCommand = iota
	KeyDisable
)

// KeyConf is one key's configuration. Material is opaque to the bridge; it
// is pushed to the firmware which performs all ciphering on-chip.
type KeyConf struct {
	Cipher   dot11.CipherSuite
	Pairwise bool
	KeyIndex uint8
	Material []byte

	// Set by the bridge on a successful KeySet.
	HWKeyIndex uint8
	GenerateIV bool
}

// AMPDUActionType is the block-ack state machine input.
type AMPDUActionType uint8

const (
	AMPDURxStart AMPDUActionType = iota
	AMPDURxStop
	AMPDUTxStart
	AMPDUTxStopCont
	AMPDUTxStopFlush
	AMPDUTxStopFlushCont
	AMPDUTxOperational
)

// AMPDUParams carries one block-ack action.
type AMPDUParams struct {
	Action   AMPDUActionType
	TID      uint8
	SSN      uint16
	BufSize  uint8
	PeerAddr [dot11.MACAddrLen]byte
}

// AggSession is one entry in the TX aggregation session table.
type AggSession struct {
	SeqStart    uint16
	Operational bool
}

// BitrateMask is the host stack's fixed-rate request. Legacy 0xfff means
// "all legacy rates", in which case the MCS index selects an HT rate.
type BitrateMask struct {
	Legacy uint16
	MCS    uint8
}

// Station describes a peer the host stack adds after association.
type Station struct {
	Addr           [dot11.MACAddrLen]byte
	SupportedRates [dot11.NumBands]uint32 // bit i = legacy rate i, bits 12+ = MCS
	HTSupported    bool
	ShortGI20      bool
	ShortGI40      bool
}

// RxFlags annotate a delivered frame.
type RxFlags uint8

const (
	RxDecrypted RxFlags = 1 << iota
	RxIVStripped
	RxMMICStripped
)

// RxStatus is the receive indication handed to the host stack.
type RxStatus struct {
	Signal int // dBm
	Band   dot11.Band
	Freq   uint16 // MHz, 0 when the channel could not be resolved
	Flags  RxFlags
}

// RxParams is the firmware's side-channel metadata for a received frame.
type RxParams struct {
	RSSI    uint8 // raw magnitude; signal strength is its negation
	Channel uint16
}

// TxFrame is an outgoing frame plus its per-frame side-channel info block.
type TxFrame struct {
	Data []byte
	Info TxInfo
}

// TxInfo is the per-frame info block. It is cleared when the completed frame
// is handed back to the host stack.
type TxInfo struct {
	Acked           bool
	InternalHdrSize int
	DriverData      [16]byte
}

// CQMEvent is a connection-quality threshold crossing.
type CQMEvent uint8

const (
	CQMQualityLow CQMEvent = iota
	CQMQualityHigh
)

func (e CQMEvent) String() string {
	if e == CQMQualityLow {
		return "low"
	}
	return "high"
}
