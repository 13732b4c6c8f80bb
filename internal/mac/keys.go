package mac

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wlan-bridge/wlan-bridge/internal/firmware"
	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

// loadKey pushes one key to the firmware. WEP keys are pushed once more
// under the pairwise type regardless of the key's pairwise/group flag; the
// firmware requires the extra load for WEP. Callers hold mu.
func (d *Device) loadKey(ctx context.Context, key *KeyConf) error {
	keyType := firmware.KeyTypeGroup
	if key.Pairwise {
		keyType = firmware.KeyTypePairwise
	}

	log.Debug().
		Uint32("cipher", uint32(key.Cipher)).
		Uint8("key_type", keyType).
		Int("key_len", len(key.Material)).
		Msg("Loading key")

	if dot11.IsWEP(key.Cipher) {
		payload := firmware.KeyRequest(firmware.KeyTypePairwise, key.KeyIndex, key.Cipher, key.Material)
		if _, err := d.cmd.Send(ctx, firmware.OpKeyLoad, firmware.ProtocolVersion, payload); err != nil {
			return fmt.Errorf("key load (wep pairwise): %w", err)
		}
	}

	payload := firmware.KeyRequest(keyType, key.KeyIndex, key.Cipher, key.Material)
	if _, err := d.cmd.Send(ctx, firmware.OpKeyLoad, firmware.ProtocolVersion, payload); err != nil {
		return fmt.Errorf("key load: %w", err)
	}
	return nil
}

// SetKey loads or disables a key. On set, the cipher cache is updated only
// after the firmware accepts the key; on disable, the cache and the key
// record are cleared before the zeroed key is pushed, so a failed push still
// leaves security disabled locally.
func (d *Device) SetKey(ctx context.Context, cmd KeyCommand, key *KeyConf) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch cmd {
	case KeySet:
		keys := *d.keys.Load()
		keys.enabled = true
		d.keys.Store(&keys)
		if err := d.loadKey(ctx, key); err != nil {
			return err
		}

		keys = *d.keys.Load()
		if key.Pairwise {
			keys.pairwiseCipher = key.Cipher
		} else {
			keys.groupCipher = key.Cipher
		}
		d.keys.Store(&keys)

		key.HWKeyIndex = key.KeyIndex
		key.GenerateIV = true
		log.Info().Bool("pairwise", key.Pairwise).Msg("Key set")
		return nil

	case KeyDisable:
		d.keys.Store(&securityInfo{})
		*key = KeyConf{}
		log.Info().Msg("Key disabled")
		return d.loadKey(ctx, key)

	default:
		return ErrUnknownKeyCommand
	}
}

// isCipherWEP reports whether the active configuration is WEP: a WEP group
// key with no pairwise key. Read by the receive path without the device
// lock; staleness across a rekey is tolerated there.
func (d *Device) isCipherWEP() bool {
	keys := d.keys.Load()
	return dot11.IsWEP(keys.groupCipher) && keys.pairwiseCipher == dot11.CipherNone
}
