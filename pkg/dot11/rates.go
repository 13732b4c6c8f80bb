package dot11

// Firmware rate codes for the legacy and MCS rate sets.
const (
	RateHW1   uint16 = 0x0
	RateHW2   uint16 = 0x2
	RateHW5_5 uint16 = 0x4
	RateHW11  uint16 = 0x6
	RateHW6   uint16 = 0x8b
	RateHW9   uint16 = 0x8f
	RateHW12  uint16 = 0x8a
	RateHW18  uint16 = 0x8e
	RateHW24  uint16 = 0x89
	RateHW36  uint16 = 0x8d
	RateHW48  uint16 = 0x88
	RateHW54  uint16 = 0x8c
)

// Rate pairs a bitrate with the firmware's code for it.
type Rate struct {
	Bitrate uint16 // units of 100 kbps
	HWValue uint16
}

// Rates is the full legacy rate set. The 5GHz band uses the OFDM subset
// starting at index 4 (no CCK rates there).
var Rates = []Rate{
	{Bitrate: 10, HWValue: RateHW1},
	{Bitrate: 20, HWValue: RateHW2},
	{Bitrate: 55, HWValue: RateHW5_5},
	{Bitrate: 110, HWValue: RateHW11},
	{Bitrate: 60, HWValue: RateHW6},
	{Bitrate: 90, HWValue: RateHW9},
	{Bitrate: 120, HWValue: RateHW12},
	{Bitrate: 180, HWValue: RateHW18},
	{Bitrate: 240, HWValue: RateHW24},
	{Bitrate: 360, HWValue: RateHW36},
	{Bitrate: 480, HWValue: RateHW48},
	{Bitrate: 540, HWValue: RateHW54},
}

// MCSRates holds the firmware codes for HT MCS 0-7.
var MCSRates = []uint16{
	0x100, 0x101, 0x102, 0x103, 0x104, 0x105, 0x106, 0x107,
}

// InvalidRate is the negotiated-minimum-rate value when no rate matched.
const InvalidRate uint16 = 0xffff
