package mac

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/wlan-bridge/wlan-bridge/internal/firmware"
	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

// NeededHeadroom is the transmit headroom reserved for the firmware header,
// exposed to the host stack at attach so frames arrive with room up front.
const NeededHeadroom = 84

// MaxHWQueues is the number of hardware transmit queues advertised.
const MaxHWQueues = 8

// MaxTxAggregationSubframes is the AMPDU subframe limit advertised.
const MaxTxAggregationSubframes = 6

// Antenna selections as the firmware encodes them.
const (
	AntennaInternal uint8 = 0x02
	AntennaUFL      uint8 = 0x03
)

// Config is the static device configuration.
type Config struct {
	MACAddr [dot11.MACAddrLen]byte
}

// SupportedBand is one band's registered channels and rates.
type SupportedBand struct {
	Band     dot11.Band
	Channels []dot11.Channel
	Rates    []dot11.Rate
	HTCap    HTCapabilities
}

// HTCapabilities advertises the high-throughput capability of a band.
type HTCapabilities struct {
	Supported    bool
	ShortGI20    bool
	ShortGI40    bool
	RxMCSMask    uint8
	AMPDUDensity uint8
}

// linkState is the association view the asynchronous receive path reads
// without holding the device lock. It is swapped whole so a reader sees a
// consistent (if possibly slightly stale) snapshot.
type linkState struct {
	assoc bool
	bssid [dot11.MACAddrLen]byte
	band  dot11.Band
}

// securityInfo is the cipher view the asynchronous receive path reads
// without holding the device lock. Like linkState it is swapped whole,
// written only under mu.
type securityInfo struct {
	enabled        bool
	pairwiseCipher dot11.CipherSuite
	groupCipher    dot11.CipherSuite
}

type rateState struct {
	fixedMask   [dot11.NumBands]uint32
	bitrateMask [dot11.NumBands]uint32
	minRate     uint16
	isHT        bool
	shortGI     bool
}

// cqmState carries the connection-quality monitor. It has its own small
// lock because the monitor runs on the receive path, which must not take
// the device lock.
type cqmState struct {
	mu         sync.Mutex
	lastRSSI   int
	threshold  int
	hysteresis int
}

type deviceStats struct {
	rxDelivered atomic.Uint64
	rxDropped   atomic.Uint64
	txCompleted atomic.Uint64
	txFailed    atomic.Uint64
}

// Device is the MAC-layer state for one radio instance. All mutable fields
// below the lock comment are guarded by mu; iface, down, link and keys are
// read by the asynchronous data path and are therefore kept in atomics,
// written only while mu is held.
type Device struct {
	cmd  firmware.CommandChannel
	host HostStack
	cfg  Config

	iface atomic.Pointer[Interface]
	down  atomic.Bool
	link  atomic.Pointer[linkState]
	keys  atomic.Pointer[securityInfo]

	cqm   cqmState
	stats deviceStats

	mu sync.Mutex
	// guarded by mu:
	attached          bool
	sbands            [dot11.NumBands]SupportedBand
	channel           dot11.Channel
	channelSet        bool
	connectedChannel  uint16
	dataQueuesBlocked bool
	sessions          map[uint8]*AggSession
	seqStart          uint16
	edcaParams        [dot11.NumTxQueues]TxQueueParams
	rate              rateState
	antenna           uint8
	txPower           int8
	rtsThreshold      uint32
	region            dot11.RegionCode
	country           [2]byte
}

// New creates a detached device bound to a command channel and a host stack.
func New(cmd firmware.CommandChannel, host HostStack, cfg Config) *Device {
	d := &Device{
		cmd:      cmd,
		host:     host,
		cfg:      cfg,
		sessions: make(map[uint8]*AggSession),
		antenna:  AntennaInternal,
		region:   dot11.RegionWorld,
	}
	d.rate.minRate = dot11.InvalidRate
	d.down.Store(true)
	d.link.Store(&linkState{band: dot11.Band2GHz})
	d.keys.Store(&securityInfo{})
	return d
}

// registerBands installs the per-band channel and rate tables. The 5GHz band
// gets the OFDM subset of the rate table.
func (d *Device) registerBands() {
	d.sbands[dot11.Band2GHz] = SupportedBand{
		Band:     dot11.Band2GHz,
		Channels: dot11.ChannelTable(dot11.Band2GHz),
		Rates:    dot11.Rates,
		HTCap:    HTCapabilities{Supported: true, ShortGI20: true, ShortGI40: true, RxMCSMask: 0xff},
	}
	d.sbands[dot11.Band5GHz] = SupportedBand{
		Band:     dot11.Band5GHz,
		Channels: dot11.ChannelTable(dot11.Band5GHz),
		Rates:    dot11.Rates[4:],
		HTCap:    HTCapabilities{Supported: true, ShortGI20: true, ShortGI40: true, RxMCSMask: 0xff},
	}
}

// Attach brings the device up after the transport handshake: it registers
// the catalog, queries the firmware's power and mux state, and opens the
// port role.
func (d *Device) Attach(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.attached {
		return fmt.Errorf("device already attached")
	}

	d.registerBands()

	if _, err := d.cmd.Send(ctx, firmware.OpPowerInfoQuery, firmware.ProtocolVersion, nil); err != nil {
		return fmt.Errorf("power info query: %w", err)
	}
	if _, err := d.cmd.Send(ctx, firmware.OpMuxStateQuery, firmware.ProtocolVersion, nil); err != nil {
		return fmt.Errorf("mux state query: %w", err)
	}
	if _, err := d.cmd.Send(ctx, firmware.OpPortControl, firmware.ProtocolVersion, []byte{1}); err != nil {
		return fmt.Errorf("port open: %w", err)
	}

	d.attached = true
	log.Info().
		Hex("mac", d.cfg.MACAddr[:]).
		Int("headroom", NeededHeadroom).
		Msg("Device attached")
	return nil
}

// Detach tears the device down. Receive delivery stops immediately; the port
// close is best effort.
func (d *Device) Detach(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.down.Store(true)
	d.iface.Store(nil)
	d.link.Store(&linkState{band: d.link.Load().band})

	if d.attached {
		if _, err := d.cmd.Send(ctx, firmware.OpPortControl, firmware.ProtocolVersion, []byte{0}); err != nil {
			log.Warn().Err(err).Msg("Port close failed during detach")
		}
	}

	d.attached = false
	d.keys.Store(&securityInfo{})
	d.sessions = make(map[uint8]*AggSession)
	log.Info().Msg("Device detached")
}

// setLink publishes the association view to the receive path. Callers hold mu.
func (d *Device) setLink(assoc bool, bssid [dot11.MACAddrLen]byte, band dot11.Band) {
	d.link.Store(&linkState{assoc: assoc, bssid: bssid, band: band})
}

// InterfaceInfo is the snapshot form of an interface.
type InterfaceInfo struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// ChannelInfo is the snapshot form of the operating channel.
type ChannelInfo struct {
	Band       string `json:"band"`
	HWValue    uint16 `json:"hw_value"`
	CenterFreq uint16 `json:"center_freq"`
}

// Snapshot is a consistent copy of the device state for the status API.
type Snapshot struct {
	Attached          bool                 `json:"attached"`
	InterfaceDown     bool                 `json:"interface_down"`
	Interface         *InterfaceInfo       `json:"interface,omitempty"`
	Associated        bool                 `json:"associated"`
	BSSID             string               `json:"bssid,omitempty"`
	Channel           *ChannelInfo         `json:"channel,omitempty"`
	ConnectedChannel  uint16               `json:"connected_channel"`
	DataQueuesBlocked bool                 `json:"data_queues_blocked"`
	SecurityEnabled   bool                 `json:"security_enabled"`
	PairwiseCipher    uint32               `json:"pairwise_cipher"`
	GroupCipher       uint32               `json:"group_cipher"`
	TxPower           int8                 `json:"tx_power"`
	Antenna           string               `json:"antenna"`
	RTSThreshold      uint32               `json:"rts_threshold"`
	Region            uint8                `json:"region"`
	Country           string               `json:"country"`
	MinRate           uint16               `json:"min_rate"`
	QoS               [4]TxQueueParams     `json:"qos"`
	Aggregation       map[uint8]AggSession `json:"aggregation"`
	RxDelivered       uint64               `json:"rx_delivered"`
	RxDropped         uint64               `json:"rx_dropped"`
	TxCompleted       uint64               `json:"tx_completed"`
	TxFailed          uint64               `json:"tx_failed"`
}

// Snapshot copies the device state under the lock.
func (d *Device) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	link := d.link.Load()
	keys := d.keys.Load()
	s := Snapshot{
		Attached:          d.attached,
		InterfaceDown:     d.down.Load(),
		Associated:        link.assoc,
		ConnectedChannel:  d.connectedChannel,
		DataQueuesBlocked: d.dataQueuesBlocked,
		SecurityEnabled:   keys.enabled,
		PairwiseCipher:    uint32(keys.pairwiseCipher),
		GroupCipher:       uint32(keys.groupCipher),
		TxPower:           d.txPower,
		RTSThreshold:      d.rtsThreshold,
		Region:            uint8(d.region),
		Country:           string(d.country[:]),
		MinRate:           d.rate.minRate,
		QoS:               d.edcaParams,
		Aggregation:       make(map[uint8]AggSession, len(d.sessions)),
		RxDelivered:       d.stats.rxDelivered.Load(),
		RxDropped:         d.stats.rxDropped.Load(),
		TxCompleted:       d.stats.txCompleted.Load(),
		TxFailed:          d.stats.txFailed.Load(),
	}
	if iface := d.iface.Load(); iface != nil {
		s.Interface = &InterfaceInfo{ID: iface.ID.String(), Type: iface.Type.String()}
	}
	if link.assoc {
		s.BSSID = fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
			link.bssid[0], link.bssid[1], link.bssid[2],
			link.bssid[3], link.bssid[4], link.bssid[5])
	}
	if d.channelSet {
		s.Channel = &ChannelInfo{
			Band:       d.channel.Band.String(),
			HWValue:    d.channel.HWValue,
			CenterFreq: d.channel.CenterFreq,
		}
	}
	if d.antenna == AntennaUFL {
		s.Antenna = "ufl"
	} else {
		s.Antenna = "internal"
	}
	for tid, sess := range d.sessions {
		s.Aggregation[tid] = *sess
	}
	return s
}
