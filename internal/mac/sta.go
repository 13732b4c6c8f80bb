package mac

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/wlan-bridge/wlan-bridge/internal/firmware"
	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

// setMinRate derives the negotiated minimum rate from the intersection of
// the fixed-rate mask and the peer's supported rates: lowest matching legacy
// rate first, then lowest matching MCS when the peer is HT. Callers hold mu.
func (d *Device) setMinRate(band dot11.Band, sta *Station) {
	d.rate.bitrateMask[band] = sta.SupportedRates[band]

	rateBitmap := d.rate.fixedMask[band] & sta.SupportedRates[band]
	matched := false

	if rateBitmap&0xfff != 0 {
		for i := range dot11.Rates {
			if rateBitmap&(1<<uint(i)) != 0 {
				d.rate.minRate = dot11.Rates[i].HWValue
				matched = true
				break
			}
		}
	}

	d.rate.isHT = sta.HTSupported

	if d.rate.isHT && rateBitmap>>12 != 0 {
		for i, mcs := range dot11.MCSRates {
			if (rateBitmap>>12)&(1<<uint(i)) != 0 {
				d.rate.minRate = mcs
				matched = true
				break
			}
		}
	}

	if !matched {
		d.rate.minRate = dot11.InvalidRate
	}
}

// StaAdd records a newly connected peer: negotiated minimum rate, HT and
// short-guard-interval flags, and a TX block-ack session request for an
// HT peer.
func (d *Device) StaAdd(iface *Interface, sta *Station) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	band := d.link.Load().band
	d.setMinRate(band, sta)

	if sta.ShortGI20 || sta.ShortGI40 {
		d.rate.shortGI = true
	}

	log.Info().
		Hex("addr", sta.Addr[:]).
		Uint16("min_rate", d.rate.minRate).
		Bool("ht", sta.HTSupported).
		Msg("Station added")

	if sta.HTSupported {
		d.host.RequestTxBASession(sta.Addr, 0)
	}
	return nil
}

// StaRemove resets the per-peer negotiated state back to defaults and
// reopens the receive filter. The filter push is best effort.
func (d *Device) StaRemove(ctx context.Context, iface *Interface, sta *Station) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.rate.bitrateMask[dot11.Band2GHz] = 0
	d.rate.bitrateMask[dot11.Band5GHz] = 0
	d.rate.minRate = dot11.InvalidRate
	d.rate.isHT = false
	d.rate.shortGI = false
	d.seqStart = 0
	keys := *d.keys.Load()
	keys.pairwiseCipher = dot11.CipherNone
	keys.groupCipher = dot11.CipherNone
	d.keys.Store(&keys)

	if err := d.sendRxFilter(ctx, firmware.RXFilterAllowAll); err != nil {
		log.Warn().Err(err).Msg("RX filter update failed on station remove")
	}

	log.Info().Hex("addr", sta.Addr[:]).Msg("Station removed")
	return nil
}
