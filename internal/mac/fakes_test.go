package mac

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wlan-bridge/wlan-bridge/internal/firmware"
	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

type cmdCall struct {
	Op      firmware.Opcode
	Version uint8
	Payload []byte
}

// fakeChannel records every command and can be told to fail per opcode.
type fakeChannel struct {
	mu    sync.Mutex
	calls []cmdCall
	fail  map[firmware.Opcode]error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{fail: make(map[firmware.Opcode]error)}
}

func (c *fakeChannel) Send(_ context.Context, op firmware.Opcode, version uint8, payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := make([]byte, len(payload))
	copy(p, payload)
	c.calls = append(c.calls, cmdCall{Op: op, Version: version, Payload: p})

	if err := c.fail[op]; err != nil {
		return nil, err
	}
	return nil, nil
}

func (c *fakeChannel) callsFor(op firmware.Opcode) []cmdCall {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []cmdCall
	for _, call := range c.calls {
		if call.Op == op {
			out = append(out, call)
		}
	}
	return out
}

func (c *fakeChannel) opSequence() []firmware.Opcode {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]firmware.Opcode, len(c.calls))
	for i, call := range c.calls {
		out[i] = call.Op
	}
	return out
}

func (c *fakeChannel) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

type baEvent struct {
	Addr [dot11.MACAddrLen]byte
	TID  uint8
}

type cqmEvent struct {
	Event CQMEvent
	RSSI  int
}

type deliveredFrame struct {
	Data []byte
	RX   RxStatus
}

// fakeHost records every downcall.
type fakeHost struct {
	mu          sync.Mutex
	frames      []deliveredFrame
	txFrames    []*TxFrame
	baRequested []baEvent
	baStarted   []baEvent
	baStopped   []baEvent
	cqmEvents   []cqmEvent
}

func (h *fakeHost) DeliverFrame(frame []byte, rx RxStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, deliveredFrame{Data: frame, RX: rx})
}

func (h *fakeHost) TxStatus(f *TxFrame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.txFrames = append(h.txFrames, f)
}

func (h *fakeHost) RequestTxBASession(addr [dot11.MACAddrLen]byte, tid uint8) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.baRequested = append(h.baRequested, baEvent{Addr: addr, TID: tid})
}

func (h *fakeHost) TxAggregationStarted(addr [dot11.MACAddrLen]byte, tid uint8) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.baStarted = append(h.baStarted, baEvent{Addr: addr, TID: tid})
}

func (h *fakeHost) TxAggregationStopped(addr [dot11.MACAddrLen]byte, tid uint8) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.baStopped = append(h.baStopped, baEvent{Addr: addr, TID: tid})
}

func (h *fakeHost) ConnQualityEvent(event CQMEvent, rssi int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cqmEvents = append(h.cqmEvents, cqmEvent{Event: event, RSSI: rssi})
}

var testMAC = [dot11.MACAddrLen]byte{0x00, 0x23, 0xa7, 0x01, 0x02, 0x03}

// newTestDevice returns an attached device over recording fakes.
func newTestDevice(t *testing.T) (*Device, *fakeChannel, *fakeHost) {
	t.Helper()

	ch := newFakeChannel()
	host := &fakeHost{}
	d := New(ch, host, Config{MACAddr: testMAC})
	require.NoError(t, d.Attach(context.Background()))
	ch.reset()
	return d, ch, host
}

// addStation adds the station interface and brings the device up.
func addStation(t *testing.T, d *Device) *Interface {
	t.Helper()

	iface, err := d.AddInterface(context.Background(), InterfaceTypeStation)
	require.NoError(t, err)
	require.NoError(t, d.Start(context.Background()))
	return iface
}
