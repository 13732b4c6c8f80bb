package mac

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/wlan-bridge/wlan-bridge/internal/firmware"
)

// Transmit forwards one frame, firmware header already in place, to the
// command channel's frame-transmit path. Headroom for the header was
// reserved at allocation; nothing is rewritten here.
func (d *Device) Transmit(ctx context.Context, f *TxFrame) error {
	if _, err := d.cmd.Send(ctx, firmware.OpFrameTransmit, firmware.ProtocolVersion, f.Data); err != nil {
		d.stats.txFailed.Add(1)
		log.Warn().Err(err).Int("len", len(f.Data)).Msg("Frame transmit failed")
		return err
	}
	return nil
}

// IndicateTxStatus reports a completed frame back to the host stack: the
// frame is marked acknowledged on success, the internally-added header is
// stripped, and the per-frame info block is cleared. Safe to call from an
// asynchronous completion context: no locks, no blocking.
func (d *Device) IndicateTxStatus(f *TxFrame, success bool) {
	if success {
		f.Info.Acked = true
	}

	if f.Info.InternalHdrSize > 0 && len(f.Data) >= f.Info.InternalHdrSize {
		f.Data = f.Data[f.Info.InternalHdrSize:]
	}
	f.Info = TxInfo{Acked: f.Info.Acked}

	d.stats.txCompleted.Add(1)
	d.host.TxStatus(f)
}
