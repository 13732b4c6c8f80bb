package mac

import "errors"

// Failure kinds surfaced to the host stack. Firmware/transport failures are
// propagated as-is (wrapped with the operation) and are none of these.
var (
	// ErrUnsupportedInterfaceType is returned both for a genuinely
	// unsupported interface type and for an attempt to add a second station
	// interface. The legacy upcall surface reported one generic code for
	// both causes; the log line tells them apart.
	ErrUnsupportedInterfaceType = errors.New("unsupported interface type")

	ErrNoActiveInterface        = errors.New("no active interface")
	ErrBandUnsupported          = errors.New("band not supported")
	ErrInvalidAntennaSelector   = errors.New("invalid antenna selector")
	ErrUnknownAggregationAction = errors.New("unknown aggregation action")
	ErrUnknownKeyCommand        = errors.New("unknown key command")
)
