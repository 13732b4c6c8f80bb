package mac

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wlan-bridge/wlan-bridge/internal/firmware"
	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

// Start opens the receive path. The allow-all filter push is best effort:
// a filter failure never blocks interface bring-up.
func (d *Device) Start(ctx context.Context) error {
	d.mu.Lock()
	d.down.Store(false)
	d.mu.Unlock()

	if err := d.sendRxFilter(ctx, firmware.RXFilterAllowAll); err != nil {
		log.Warn().Err(err).Msg("RX filter update failed on start")
	}
	return nil
}

// Stop closes the receive path and asks the firmware to block all receive
// frames. The filter push is best effort; shutdown always succeeds.
func (d *Device) Stop(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.down.Store(true)

	if err := d.sendRxFilter(ctx, firmware.RXFilterBlockAll); err != nil {
		log.Warn().Err(err).Msg("RX filter update failed on stop")
	}
}

// AddInterface adds the single station interface. Any other type, or an
// attempt to add a second interface, fails with the generic unsupported kind.
func (d *Device) AddInterface(ctx context.Context, ifType InterfaceType) (*Interface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ifType != InterfaceTypeStation {
		log.Error().Str("type", ifType.String()).Msg("Interface type not supported")
		return nil, ErrUnsupportedInterfaceType
	}
	if d.iface.Load() != nil {
		log.Error().Msg("Station interface already exists")
		return nil, ErrUnsupportedInterfaceType
	}

	payload := firmware.VAPCapabilitiesRequest(firmware.OpModeSTA, firmware.VAPAdd)
	if _, err := d.cmd.Send(ctx, firmware.OpVAPCapabilities, firmware.ProtocolVersion, payload); err != nil {
		return nil, fmt.Errorf("vap add: %w", err)
	}

	iface := &Interface{ID: uuid.New(), Type: ifType}
	d.iface.Store(iface)

	log.Info().Str("id", iface.ID.String()).Msg("Station interface added")
	return iface, nil
}

// RemoveInterface issues the capability-remove command and clears the stored
// interface only when the supplied one matches it. Keys and the aggregation
// session table reset with the interface.
func (d *Device) RemoveInterface(ctx context.Context, iface *Interface) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if iface == nil || iface.Type != InterfaceTypeStation {
		return nil
	}

	payload := firmware.VAPCapabilitiesRequest(firmware.OpModeSTA, firmware.VAPDelete)
	if _, err := d.cmd.Send(ctx, firmware.OpVAPCapabilities, firmware.ProtocolVersion, payload); err != nil {
		return fmt.Errorf("vap delete: %w", err)
	}

	if cur := d.iface.Load(); cur != nil && cur.ID == iface.ID {
		d.iface.Store(nil)
		d.keys.Store(&securityInfo{})
		d.sessions = make(map[uint8]*AggSession)
		d.setLink(false, [dot11.MACAddrLen]byte{}, d.link.Load().band)
		log.Info().Str("id", iface.ID.String()).Msg("Station interface removed")
	}
	return nil
}

// Configure dispatches hardware configuration changes by flag.
func (d *Device) Configure(ctx context.Context, changed ConfChanged, conf Conf) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if changed&ConfChangedChannel != 0 {
		err = d.channelChange(ctx, conf.Channel)
	}
	if changed&ConfChangedPower != 0 {
		err = d.configPower(ctx, conf.PowerLevel)
	}
	return err
}

// channelChange programs a new operating channel. While associated, data
// queues are blocked across a switch away from the connected channel and
// unblocked once the radio is back on it; both pushes are best effort.
// Callers hold mu.
func (d *Device) channelChange(ctx context.Context, target dot11.Channel) error {
	link := d.link.Load()

	log.Info().
		Uint16("channel", target.HWValue).
		Str("band", target.Band.String()).
		Msg("Channel change")

	if link.assoc {
		if !d.dataQueuesBlocked && d.connectedChannel != target.HWValue {
			log.Debug().Uint16("channel", target.HWValue).Msg("Blocking data queues")
			if err := d.sendBlockUnblock(ctx, true); err != nil {
				log.Warn().Err(err).Msg("Data queue block failed")
			} else {
				d.dataQueuesBlocked = true
			}
		}
	}

	err := d.setChannel(ctx, target)

	if link.assoc {
		if d.dataQueuesBlocked && d.connectedChannel == target.HWValue {
			log.Debug().Uint16("channel", target.HWValue).Msg("Unblocking data queues")
			if uerr := d.sendBlockUnblock(ctx, false); uerr != nil {
				log.Warn().Err(uerr).Msg("Data queue unblock failed")
			} else {
				d.dataQueuesBlocked = false
			}
		}
	} else if d.dataQueuesBlocked {
		if uerr := d.sendBlockUnblock(ctx, false); uerr != nil {
			log.Warn().Err(uerr).Msg("Data queue unblock failed")
		} else {
			d.dataQueuesBlocked = false
		}
	}

	return err
}

// setChannel validates the band and issues the channel-set command; the
// cached channel moves only on success. Callers hold mu.
func (d *Device) setChannel(ctx context.Context, target dot11.Channel) error {
	if target.Band >= dot11.NumBands ||
		dot11.ChannelToFrequency(target.HWValue, target.Band) == 0 {
		return ErrBandUnsupported
	}

	payload := firmware.ChannelRequest(target, d.txPower)
	if _, err := d.cmd.Send(ctx, firmware.OpChannelSet, firmware.ProtocolVersion, payload); err != nil {
		return fmt.Errorf("channel set: %w", err)
	}

	d.channel = target
	d.channelSet = true

	link := d.link.Load()
	if link.band != target.Band {
		d.setLink(link.assoc, link.bssid, target.Band)
	}
	return nil
}

// configPower updates the transmit power. No-op when the level is already
// current; the cache moves only after the firmware accepts. Callers hold mu.
func (d *Device) configPower(ctx context.Context, level int8) error {
	if d.iface.Load() == nil {
		log.Error().Msg("No active interface for power change")
		return ErrNoActiveInterface
	}
	if level == d.txPower {
		return nil
	}

	log.Info().Int8("dbm", level).Msg("Set tx power")

	payload := firmware.RadioParamsRequest(level, d.antenna)
	if _, err := d.cmd.Send(ctx, firmware.OpRadioParamsUpdate, firmware.ProtocolVersion, payload); err != nil {
		return fmt.Errorf("radio params update: %w", err)
	}

	d.txPower = level
	return nil
}

// BSSInfoChanged handles BSS parameter updates from the host stack.
func (d *Device) BSSInfoChanged(ctx context.Context, changed BSSChanged, conf BSSConf) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if changed&BSSChangedAssoc != 0 {
		log.Info().Bool("assoc", conf.Assoc).Msg("Association status changed")

		if conf.Assoc {
			word := firmware.RXFilterDataAssocPeer |
				firmware.RXFilterCtrlAssocPeer |
				firmware.RXFilterMgmtAssocPeer
			if err := d.sendRxFilter(ctx, word); err != nil {
				log.Warn().Err(err).Msg("RX filter update failed on associate")
			}
		}

		payload := firmware.BSSStatusRequest(conf.Assoc, conf.BSSID[:], conf.QoS, conf.AID)
		if _, err := d.cmd.Send(ctx, firmware.OpBSSStatusInform, firmware.ProtocolVersion, payload); err != nil {
			return fmt.Errorf("bss status inform: %w", err)
		}

		d.connectedChannel = conf.ChannelHW
		d.setLink(conf.Assoc, conf.BSSID, d.link.Load().band)
	}

	if changed&BSSChangedCQM != 0 {
		d.cqm.mu.Lock()
		d.cqm.lastRSSI = 0
		d.cqm.threshold = conf.CQMThreshold
		d.cqm.hysteresis = conf.CQMHysteresis
		d.cqm.mu.Unlock()
		log.Info().
			Int("threshold", conf.CQMThreshold).
			Int("hysteresis", conf.CQMHysteresis).
			Msg("CQM parameters updated")
	}

	return nil
}

func (d *Device) sendRxFilter(ctx context.Context, word uint16) error {
	payload := firmware.RXFilterRequest(word)
	_, err := d.cmd.Send(ctx, firmware.OpRXFilterSet, firmware.ProtocolVersion, payload)
	return err
}

func (d *Device) sendBlockUnblock(ctx context.Context, block bool) error {
	payload := firmware.BlockUnblockRequest(block)
	_, err := d.cmd.Send(ctx, firmware.OpBlockUnblock, firmware.ProtocolVersion, payload)
	return err
}
