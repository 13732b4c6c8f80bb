package dot11

// Band identifies an operating band.
type Band uint8

const (
	Band2GHz Band = iota
	Band5GHz

	NumBands
)

func (b Band) String() string {
	switch b {
	case Band2GHz:
		return "2.4GHz"
	case Band5GHz:
		return "5GHz"
	}
	return "unknown"
}

// ChannelFlags carries per-channel regulatory restrictions.
type ChannelFlags uint8

const (
	// ChanDisabled marks a channel unusable in the current regulatory domain.
	ChanDisabled ChannelFlags = 1 << iota
	// ChanRadar marks a DFS channel that shares spectrum with radar.
	ChanRadar
	// ChanNoInitRadiation forbids initiating radiation on the channel.
	ChanNoInitRadiation
)

// Channel describes one hardware channel.
type Channel struct {
	Band       Band
	CenterFreq uint16 // MHz
	HWValue    uint16 // hardware channel number
	Flags      ChannelFlags
}

var channels2GHz = []Channel{
	{Band: Band2GHz, CenterFreq: 2412, HWValue: 1},
	{Band: Band2GHz, CenterFreq: 2417, HWValue: 2},
	{Band: Band2GHz, CenterFreq: 2422, HWValue: 3},
	{Band: Band2GHz, CenterFreq: 2427, HWValue: 4},
	{Band: Band2GHz, CenterFreq: 2432, HWValue: 5},
	{Band: Band2GHz, CenterFreq: 2437, HWValue: 6},
	{Band: Band2GHz, CenterFreq: 2442, HWValue: 7},
	{Band: Band2GHz, CenterFreq: 2447, HWValue: 8},
	{Band: Band2GHz, CenterFreq: 2452, HWValue: 9},
	{Band: Band2GHz, CenterFreq: 2457, HWValue: 10},
	{Band: Band2GHz, CenterFreq: 2462, HWValue: 11},
	{Band: Band2GHz, CenterFreq: 2467, HWValue: 12},
	{Band: Band2GHz, CenterFreq: 2472, HWValue: 13},
	{Band: Band2GHz, CenterFreq: 2484, HWValue: 14},
}

var channels5GHz = []Channel{
	{Band: Band5GHz, CenterFreq: 5180, HWValue: 36},
	{Band: Band5GHz, CenterFreq: 5200, HWValue: 40},
	{Band: Band5GHz, CenterFreq: 5220, HWValue: 44},
	{Band: Band5GHz, CenterFreq: 5240, HWValue: 48},
	{Band: Band5GHz, CenterFreq: 5260, HWValue: 52, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5280, HWValue: 56, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5300, HWValue: 60, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5320, HWValue: 64, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5500, HWValue: 100, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5520, HWValue: 104, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5540, HWValue: 108, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5560, HWValue: 112, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5580, HWValue: 116, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5600, HWValue: 120, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5620, HWValue: 124, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5640, HWValue: 128, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5660, HWValue: 132, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5680, HWValue: 136, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5700, HWValue: 140, Flags: ChanRadar},
	{Band: Band5GHz, CenterFreq: 5745, HWValue: 149},
	{Band: Band5GHz, CenterFreq: 5765, HWValue: 153},
	{Band: Band5GHz, CenterFreq: 5785, HWValue: 157},
	{Band: Band5GHz, CenterFreq: 5805, HWValue: 161},
	{Band: Band5GHz, CenterFreq: 5825, HWValue: 165},
}

// ChannelTable returns a fresh copy of the channel table for a band. Callers
// own the copy and may mutate the flags (regulatory updates do).
func ChannelTable(band Band) []Channel {
	var src []Channel
	switch band {
	case Band2GHz:
		src = channels2GHz
	case Band5GHz:
		src = channels5GHz
	default:
		return nil
	}
	out := make([]Channel, len(src))
	copy(out, src)
	return out
}

// ChannelToFrequency returns the center frequency in MHz for a hardware
// channel number on a band, or 0 when the channel is unknown.
func ChannelToFrequency(hw uint16, band Band) uint16 {
	var src []Channel
	switch band {
	case Band2GHz:
		src = channels2GHz
	case Band5GHz:
		src = channels5GHz
	default:
		return 0
	}
	for i := range src {
		if src[i].HWValue == hw {
			return src[i].CenterFreq
		}
	}
	return 0
}
