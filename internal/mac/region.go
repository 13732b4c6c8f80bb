package mac

import (
	"github.com/rs/zerolog/log"

	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

// RegulatoryNotify applies a regulatory-domain change: radar-bearing 5GHz
// channels become no-initiate-radiation unless already disabled, and the
// region and country codes are cached for the firmware's benefit.
func (d *Device) RegulatoryNotify(dfs dot11.DFSRegion, alpha2 string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	log.Info().
		Str("country", alpha2).
		Uint8("dfs_region", uint8(dfs)).
		Msg("Regulatory domain change")

	sband := &d.sbands[dot11.Band5GHz]
	for i := range sband.Channels {
		ch := &sband.Channels[i]
		if ch.Flags&dot11.ChanDisabled != 0 {
			continue
		}
		if ch.Flags&dot11.ChanRadar != 0 {
			ch.Flags |= dot11.ChanNoInitRadiation
		}
	}

	d.region = dot11.RegionForDFS(dfs)
	log.Info().Uint8("region", uint8(d.region)).Msg("Region code mapped")

	if len(alpha2) >= 2 {
		d.country[0] = alpha2[0]
		d.country[1] = alpha2[1]
	}
}

// Region returns the cached firmware region code.
func (d *Device) Region() dot11.RegionCode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.region
}

// SupportedChannels returns a copy of a band's registered channel table with
// current regulatory flags.
func (d *Device) SupportedChannels(band dot11.Band) []dot11.Channel {
	d.mu.Lock()
	defer d.mu.Unlock()

	if band >= dot11.NumBands {
		return nil
	}
	out := make([]dot11.Channel, len(d.sbands[band].Channels))
	copy(out, d.sbands[band].Channels)
	return out
}
