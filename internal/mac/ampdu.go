package mac

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wlan-bridge/wlan-bridge/internal/firmware"
)

// AMPDUAction drives the block-acknowledgement state machine. RX sessions
// live entirely in firmware; the local table tracks TX sessions only.
//
// TX_OPERATIONAL replays the recorded starting sequence number even when no
// TX_START preceded it in the current session, so a stale value from a prior
// session can reach the firmware. That matches the legacy behavior and is a
// protocol-level risk to verify, not something this layer corrects.
func (d *Device) AMPDUAction(ctx context.Context, iface *Interface, params AMPDUParams) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	log.Debug().
		Uint8("action", uint8(params.Action)).
		Uint8("tid", params.TID).
		Uint16("ssn", params.SSN).
		Msg("AMPDU action")

	switch params.Action {
	case AMPDURxStart:
		payload := firmware.AMPDURequest(params.TID, params.SSN, params.BufSize, firmware.AMPDURxAddBADone)
		if _, err := d.cmd.Send(ctx, firmware.OpAMPDUParams, firmware.ProtocolVersion, payload); err != nil {
			return fmt.Errorf("rx addba: %w", err)
		}
		return nil

	case AMPDURxStop:
		payload := firmware.AMPDURequest(params.TID, 0, params.BufSize, firmware.AMPDURxDelBA)
		if _, err := d.cmd.Send(ctx, firmware.OpAMPDUParams, firmware.ProtocolVersion, payload); err != nil {
			return fmt.Errorf("rx delba: %w", err)
		}
		return nil

	case AMPDUTxStart:
		// No firmware interaction: starting TX aggregation is host-stack
		// driven. Record the starting sequence number and let the session
		// proceed.
		d.seqStart = params.SSN
		d.sessions[params.TID] = &AggSession{SeqStart: params.SSN}
		d.host.TxAggregationStarted(params.PeerAddr, params.TID)
		return nil

	case AMPDUTxStopCont, AMPDUTxStopFlush, AMPDUTxStopFlushCont:
		payload := firmware.AMPDURequest(params.TID, params.SSN, params.BufSize, firmware.AMPDUTxDelBA)
		if _, err := d.cmd.Send(ctx, firmware.OpAMPDUParams, firmware.ProtocolVersion, payload); err != nil {
			return fmt.Errorf("tx delba: %w", err)
		}
		delete(d.sessions, params.TID)
		d.host.TxAggregationStopped(params.PeerAddr, params.TID)
		return nil

	case AMPDUTxOperational:
		ssn := d.seqStart
		sess := d.sessions[params.TID]
		if sess != nil {
			ssn = sess.SeqStart
		}
		payload := firmware.AMPDURequest(params.TID, ssn, params.BufSize, firmware.AMPDUTxAddBADone)
		if _, err := d.cmd.Send(ctx, firmware.OpAMPDUParams, firmware.ProtocolVersion, payload); err != nil {
			return fmt.Errorf("tx addba: %w", err)
		}
		if sess != nil {
			sess.Operational = true
		}
		return nil

	default:
		log.Error().Uint8("action", uint8(params.Action)).Msg("Unknown AMPDU action")
		return ErrUnknownAggregationAction
	}
}
