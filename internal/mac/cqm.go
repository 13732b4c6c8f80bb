package mac

import "github.com/rs/zerolog/log"

// performCQM evaluates one signal reading against the configured threshold
// with hysteresis and notifies the host stack at most once per crossing.
// A zero last-reported value means no prior report; real RSSI readings are
// strictly negative, so zero is safe as the re-arm marker.
func (d *Device) performCQM(rssi int) {
	d.cqm.mu.Lock()

	last := d.cqm.lastRSSI
	threshold := d.cqm.threshold
	hysteresis := d.cqm.hysteresis

	var event CQMEvent
	switch {
	case rssi < threshold && (last == 0 || rssi < last-hysteresis):
		event = CQMQualityLow
	case rssi > threshold && (last == 0 || rssi > last+hysteresis):
		event = CQMQualityHigh
	default:
		d.cqm.mu.Unlock()
		return
	}

	d.cqm.lastRSSI = rssi
	d.cqm.mu.Unlock()

	log.Debug().
		Str("event", event.String()).
		Int("rssi", rssi).
		Msg("CQM notifying event")
	d.host.ConnQualityEvent(event, rssi)
}
