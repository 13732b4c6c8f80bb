package hostbridge

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/wlan-bridge/wlan-bridge/internal/mac"
	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

// Publisher forwards host-stack events onto NATS. It implements mac.HostStack;
// each event class gets its own subject under <prefix>.host so consumers can
// subscribe selectively.
type Publisher struct {
	nc     *nats.Conn
	prefix string
}

// NewPublisher creates an event publisher rooted at subjectPrefix.
func NewPublisher(nc *nats.Conn, subjectPrefix string) *Publisher {
	return &Publisher{nc: nc, prefix: subjectPrefix}
}

// RxEvent is a received frame translated for the host stack.
type RxEvent struct {
	ID           string    `json:"id"`
	Time         time.Time `json:"time"`
	Data         []byte    `json:"data"`
	Signal       int       `json:"signal"`
	Band         string    `json:"band"`
	Freq         uint16    `json:"freq"`
	Decrypted    bool      `json:"decrypted"`
	IVStripped   bool      `json:"ivStripped"`
	MMICStripped bool      `json:"mmicStripped"`
}

// TxStatusEvent reports a completed transmit frame.
type TxStatusEvent struct {
	ID    string    `json:"id"`
	Time  time.Time `json:"time"`
	Data  []byte    `json:"data"`
	Acked bool      `json:"acked"`
}

// BAEvent reports a TX block-ack session transition.
type BAEvent struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	PeerAddr string    `json:"peerAddr"`
	TID      uint8     `json:"tid"`
	State    string    `json:"state"`
}

// CQMNotification reports a connection-quality threshold crossing.
type CQMNotification struct {
	ID    string    `json:"id"`
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	RSSI  int       `json:"rssi"`
}

func (p *Publisher) publish(subject string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to marshal host event")
		return
	}
	if err := p.nc.Publish(subject, data); err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to publish host event")
	}
}

// DeliverFrame publishes one received frame.
func (p *Publisher) DeliverFrame(frame []byte, rx mac.RxStatus) {
	ev := RxEvent{
		ID:           uuid.New().String(),
		Time:         time.Now().UTC(),
		Data:         frame,
		Signal:       rx.Signal,
		Band:         rx.Band.String(),
		Freq:         rx.Freq,
		Decrypted:    rx.Flags&mac.RxDecrypted != 0,
		IVStripped:   rx.Flags&mac.RxIVStripped != 0,
		MMICStripped: rx.Flags&mac.RxMMICStripped != 0,
	}
	p.publish(fmt.Sprintf("%s.host.rx", p.prefix), ev)

	log.Debug().
		Int("len", len(frame)).
		Int("signal", rx.Signal).
		Msg("Frame delivered to host")
}

// TxStatus publishes one transmit completion.
func (p *Publisher) TxStatus(f *mac.TxFrame) {
	ev := TxStatusEvent{
		ID:    uuid.New().String(),
		Time:  time.Now().UTC(),
		Data:  f.Data,
		Acked: f.Info.Acked,
	}
	p.publish(fmt.Sprintf("%s.host.txstatus", p.prefix), ev)
}

// RequestTxBASession asks the host stack to start a TX block-ack session.
func (p *Publisher) RequestTxBASession(addr [dot11.MACAddrLen]byte, tid uint8) {
	p.publish(fmt.Sprintf("%s.host.ba.request", p.prefix), BAEvent{
		ID:       uuid.New().String(),
		Time:     time.Now().UTC(),
		PeerAddr: hex.EncodeToString(addr[:]),
		TID:      tid,
		State:    "requested",
	})

	log.Info().
		Str("peer", hex.EncodeToString(addr[:])).
		Uint8("tid", tid).
		Msg("TX block-ack session requested")
}

// TxAggregationStarted signals a TX aggregation session is set up locally.
func (p *Publisher) TxAggregationStarted(addr [dot11.MACAddrLen]byte, tid uint8) {
	p.publish(fmt.Sprintf("%s.host.ba.started", p.prefix), BAEvent{
		ID:       uuid.New().String(),
		Time:     time.Now().UTC(),
		PeerAddr: hex.EncodeToString(addr[:]),
		TID:      tid,
		State:    "started",
	})
}

// TxAggregationStopped signals a TX aggregation session is torn down.
func (p *Publisher) TxAggregationStopped(addr [dot11.MACAddrLen]byte, tid uint8) {
	p.publish(fmt.Sprintf("%s.host.ba.stopped", p.prefix), BAEvent{
		ID:       uuid.New().String(),
		Time:     time.Now().UTC(),
		PeerAddr: hex.EncodeToString(addr[:]),
		TID:      tid,
		State:    "stopped",
	})
}

// ConnQualityEvent publishes a CQM threshold crossing.
func (p *Publisher) ConnQualityEvent(event mac.CQMEvent, rssi int) {
	p.publish(fmt.Sprintf("%s.host.cqm", p.prefix), CQMNotification{
		ID:    uuid.New().String(),
		Time:  time.Now().UTC(),
		Event: event.String(),
		RSSI:  rssi,
	})

	log.Info().
		Str("event", event.String()).
		Int("rssi", rssi).
		Msg("Connection quality event published")
}
