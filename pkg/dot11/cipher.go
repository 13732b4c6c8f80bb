package dot11

// CipherSuite is an IEEE 802.11 cipher suite selector.
type CipherSuite uint32

const (
	CipherNone   CipherSuite = 0
	CipherWEP40  CipherSuite = 0x000fac01
	CipherTKIP   CipherSuite = 0x000fac02
	CipherCCMP   CipherSuite = 0x000fac04
	CipherWEP104 CipherSuite = 0x000fac05
)

// IsWEP reports whether the suite is a WEP variant.
func IsWEP(c CipherSuite) bool {
	return c == CipherWEP40 || c == CipherWEP104
}

// AccessCategory is an EDCA access category in host-stack queue order.
type AccessCategory uint16

const (
	ACVoice AccessCategory = iota
	ACVideo
	ACBestEffort
	ACBackground

	NumAccessCategories
)

// Firmware transmit queue slots. The firmware orders them opposite to the
// host stack's access categories.
const (
	QueueBK = 0
	QueueBE = 1
	QueueVI = 2
	QueueVO = 3

	NumTxQueues = 4
)
