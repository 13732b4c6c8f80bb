package mac

import (
	"github.com/rs/zerolog/log"

	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

// ConfTx stores one EDCA parameter set against the firmware queue slot for
// the access category. Queue indices outside the four recognized categories
// are ignored. The default branch maps anything unrecognized onto the
// best-effort slot; with the range guard above it, only a widened category
// enum could ever reach it, and it would land on best-effort silently.
func (d *Device) ConfTx(queue dot11.AccessCategory, params TxQueueParams) error {
	if queue >= dot11.NumAccessCategories {
		return nil
	}

	log.Info().
		Uint16("queue", uint16(queue)).
		Uint8("aifs", params.AIFS).
		Uint16("cw_min", params.CWMin).
		Uint16("cw_max", params.CWMax).
		Uint16("txop", params.TXOp).
		Msg("Configure tx queue")

	d.mu.Lock()
	defer d.mu.Unlock()

	var idx int
	switch queue {
	case dot11.ACVoice:
		idx = dot11.QueueVO
	case dot11.ACVideo:
		idx = dot11.QueueVI
	case dot11.ACBestEffort:
		idx = dot11.QueueBE
	case dot11.ACBackground:
		idx = dot11.QueueBK
	default:
		idx = dot11.QueueBE
	}

	d.edcaParams[idx] = params
	return nil
}

// ConfigureFilter restricts the requested receive-filter flags to the set
// the hardware supports. No firmware interaction: the hardware filter is
// fixed and filter policy here is a host-side restriction only.
func (d *Device) ConfigureFilter(changed FilterFlags, total FilterFlags) FilterFlags {
	return total & SupportedFilters
}

// SetRTSThreshold caches the RTS threshold.
func (d *Device) SetRTSThreshold(value uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.rtsThreshold = value
	return nil
}

// SetBitrateMask records the fixed-rate mask for the current band. A legacy
// mask of 0xfff means "no legacy restriction" and selects the HT MCS set
// shifted above the legacy bits instead.
func (d *Device) SetBitrateMask(mask BitrateMask) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	band := d.link.Load().band
	d.rate.fixedMask[band] = 0

	if mask.Legacy == 0xfff {
		d.rate.fixedMask[band] = uint32(mask.MCS) << 12
	} else {
		d.rate.fixedMask[band] = uint32(mask.Legacy)
	}
	return nil
}
