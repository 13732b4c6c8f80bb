package firmware

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSChannel implements CommandChannel over a NATS request/reply pair. Each
// opcode maps to its own subject so a firmware (or simulator) can subscribe
// with a single wildcard.
type NATSChannel struct {
	nc      *nats.Conn
	prefix  string
	timeout time.Duration
}

// NewNATSChannel creates a command channel rooted at subjectPrefix.
func NewNATSChannel(nc *nats.Conn, subjectPrefix string, timeout time.Duration) *NATSChannel {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &NATSChannel{nc: nc, prefix: subjectPrefix, timeout: timeout}
}

// Send issues one command and waits for the firmware reply. The first reply
// byte is the firmware status code; the rest is the response payload.
func (c *NATSChannel) Send(ctx context.Context, op Opcode, version uint8, payload []byte) ([]byte, error) {
	subject := fmt.Sprintf("%s.cmd.%d", c.prefix, op)

	req := make([]byte, 1, 1+len(payload))
	req[0] = version
	req = append(req, payload...)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.nc.RequestWithContext(ctx, subject, req)
	if err != nil {
		return nil, fmt.Errorf("command %s: %w", op, err)
	}
	if len(msg.Data) < 1 {
		return nil, fmt.Errorf("command %s: empty reply", op)
	}
	if status := msg.Data[0]; status != 0 {
		log.Debug().
			Str("opcode", op.String()).
			Uint8("status", status).
			Msg("Firmware rejected command")
		return nil, fmt.Errorf("command %s: status %d: %w", op, status, ErrCommandFailed)
	}
	return msg.Data[1:], nil
}
