package mac

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wlan-bridge/wlan-bridge/internal/firmware"
)

// SetAntenna selects the antenna path: 0 for the internal antenna, 1 for
// the UFL connector. The firmware is told only when the selection changes;
// the cache moves only after the firmware accepts.
func (d *Device) SetAntenna(ctx context.Context, txAnt, rxAnt uint32) error {
	if txAnt > 1 || rxAnt > 1 {
		log.Error().
			Uint32("tx", txAnt).
			Uint32("rx", rxAnt).
			Msg("Invalid antenna selection, use 0 for internal, 1 for ufl")
		return ErrInvalidAntennaSelector
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	antenna := AntennaInternal
	if txAnt == 1 {
		antenna = AntennaUFL
	}

	if d.antenna != antenna {
		payload := firmware.RadioParamsRequest(d.txPower, antenna)
		if _, err := d.cmd.Send(ctx, firmware.OpRadioParamsUpdate, firmware.ProtocolVersion, payload); err != nil {
			return fmt.Errorf("antenna set: %w", err)
		}
		d.antenna = antenna
	}

	log.Info().Uint32("tx", txAnt).Msg("Antenna path configured")
	return nil
}

// GetAntenna reports the antenna in use: 1 when the UFL path is selected.
func (d *Device) GetAntenna() (txAnt, rxAnt uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.antenna == AntennaUFL {
		txAnt = 1
	}
	return txAnt, 0
}
