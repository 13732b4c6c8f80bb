package firmware

import (
	"context"
	"errors"
)

// Opcode identifies a firmware command.
type Opcode uint16

const (
	OpPowerInfoQuery Opcode = iota + 1
	OpMuxStateQuery
	OpPortControl
	OpVAPCapabilities
	OpChannelSet
	OpRadioParamsUpdate
	OpRXFilterSet
	OpKeyLoad
	OpBSSStatusInform
	OpAMPDUParams
	OpBlockUnblock
	OpFrameTransmit
)

func (op Opcode) String() string {
	switch op {
	case OpPowerInfoQuery:
		return "power_info_query"
	case OpMuxStateQuery:
		return "mux_state_query"
	case OpPortControl:
		return "port_control"
	case OpVAPCapabilities:
		return "vap_capabilities"
	case OpChannelSet:
		return "channel_set"
	case OpRadioParamsUpdate:
		return "radio_params_update"
	case OpRXFilterSet:
		return "rx_filter_set"
	case OpKeyLoad:
		return "key_load"
	case OpBSSStatusInform:
		return "bss_status_inform"
	case OpAMPDUParams:
		return "ampdu_params"
	case OpBlockUnblock:
		return "block_unblock"
	case OpFrameTransmit:
		return "frame_transmit"
	}
	return "unknown"
}

// ProtocolVersion is the request framing version the bridge speaks.
const ProtocolVersion uint8 = 1

// ErrCommandFailed is returned when the firmware rejects a command. Transport
// implementations wrap it with the firmware status code.
var ErrCommandFailed = errors.New("firmware command failed")

// CommandChannel is the synchronous request/response primitive to the
// firmware. Implementations either serialize concurrent callers themselves
// or rely on the caller's device lock; they must return rather than hang,
// applying a transport-level timeout.
type CommandChannel interface {
	Send(ctx context.Context, op Opcode, version uint8, payload []byte) ([]byte, error)
}
