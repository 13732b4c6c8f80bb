package mac

import (
	"bytes"

	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

// stripAfterHeader removes n bytes immediately following the MAC header by
// moving the header forward, mirroring the firmware's in-place layout.
func stripAfterHeader(frame []byte, hdrLen, n int) []byte {
	if len(frame) < hdrLen+n {
		return frame
	}
	copy(frame[n:hdrLen+n], frame[:hdrLen])
	return frame[n:]
}

// DeliverReceivedFrame translates one received frame and hands it to the
// host stack. It runs in the firmware's asynchronous receive context and
// never takes the device lock: the association view and cipher state it
// needs are read as some recent configuration, which is sufficient here.
// Frames are discarded while the interface is down or absent.
func (d *Device) DeliverReceivedFrame(frame []byte, params RxParams) {
	if d.down.Load() || d.iface.Load() == nil {
		d.stats.rxDropped.Add(1)
		return
	}

	link := d.link.Load()

	rxs := RxStatus{
		Signal: -int(params.RSSI),
		Band:   link.band,
	}
	if freq := dot11.ChannelToFrequency(params.Channel, link.band); freq != 0 {
		rxs.Freq = freq
	}

	fc := dot11.FrameControl(frame)
	hdrLen := dot11.HeaderLen(fc)

	if dot11.IsProtected(fc) {
		if d.isCipherWEP() {
			// WEP: 4-byte IV only.
			frame = stripAfterHeader(frame, hdrLen, 4)
		} else {
			frame = stripAfterHeader(frame, hdrLen, 8)
			rxs.Flags |= RxMMICStripped
		}
		rxs.Flags |= RxDecrypted | RxIVStripped
	}

	// CQM runs only on beacons from the associated peer; the reported RSSI
	// is a weighted average maintained by the firmware.
	if link.assoc && bytes.Equal(link.bssid[:], dot11.Addr2(frame)) {
		if dot11.IsBeacon(fc) {
			d.performCQM(rxs.Signal)
		}
	}

	d.stats.rxDelivered.Add(1)
	d.host.DeliverFrame(frame, rxs)
}
