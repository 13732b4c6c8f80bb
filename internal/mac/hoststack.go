package mac

import "github.com/wlan-bridge/wlan-bridge/pkg/dot11"

// HostStack is the downcall surface: everything the bridge reports back to
// the surrounding protocol stack. DeliverFrame and TxStatus are invoked from
// an asynchronous context and must not block; implementations that need to
// do real work should hand off to their own goroutine.
type HostStack interface {
	// DeliverFrame hands a received frame up with its receive status.
	DeliverFrame(frame []byte, rx RxStatus)

	// TxStatus reports completion of a transmitted frame.
	TxStatus(f *TxFrame)

	// RequestTxBASession asks the stack to negotiate a TX block-ack session
	// with a peer.
	RequestTxBASession(addr [dot11.MACAddrLen]byte, tid uint8)

	// TxAggregationStarted signals that a TX block-ack session may proceed.
	TxAggregationStarted(addr [dot11.MACAddrLen]byte, tid uint8)

	// TxAggregationStopped signals that a TX block-ack session has stopped.
	TxAggregationStopped(addr [dot11.MACAddrLen]byte, tid uint8)

	// ConnQualityEvent reports a signal-quality threshold crossing.
	ConnQualityEvent(event CQMEvent, rssi int)
}
