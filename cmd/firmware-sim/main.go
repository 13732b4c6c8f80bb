package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// parseOpcode extracts the opcode number from the last token of a command
// subject. A subject that does not end in a decimal opcode is an error; the
// handler drops such requests rather than answering for opcode 0.
func parseOpcode(subject string) (uint64, error) {
	parts := strings.Split(subject, ".")
	op, err := strconv.ParseUint(parts[len(parts)-1], 10, 16)
	if err != nil {
		return 0, fmt.Errorf("opcode suffix %q: %w", parts[len(parts)-1], err)
	}
	return op, nil
}

// firmware-sim answers every bridge command with a success status. It exists
// for local development and integration testing against a real NATS broker.
// Opcodes listed in -fail are rejected with status 1 instead.
func main() {
	var natsURL = flag.String("nats", nats.DefaultURL, "NATS server URL")
	var prefix = flag.String("prefix", "wlan", "command subject prefix")
	var failList = flag.String("fail", "", "comma-separated opcode numbers to reject")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	failing := make(map[uint64]bool)
	for _, s := range strings.Split(*failList, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		op, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			log.Fatal().Str("opcode", s).Msg("Invalid opcode in -fail")
		}
		failing[op] = true
	}

	nc, err := nats.Connect(*natsURL,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to NATS")
	}
	defer nc.Close()

	subject := *prefix + ".cmd.>"
	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		op, err := parseOpcode(msg.Subject)
		if err != nil {
			log.Error().Err(err).Str("subject", msg.Subject).Msg("Malformed command subject")
			return
		}

		status := byte(0)
		if failing[op] {
			status = 1
		}

		log.Debug().
			Uint64("opcode", op).
			Int("payload_len", len(msg.Data)).
			Uint8("status", status).
			Msg("Command handled")

		if err := msg.Respond([]byte{status}); err != nil {
			log.Error().Err(err).Msg("Failed to respond")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Str("subject", subject).Msg("Failed to subscribe")
	}
	defer sub.Unsubscribe()

	log.Info().
		Str("subject", subject).
		Int("failing_opcodes", len(failing)).
		Msg("Firmware simulator ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Firmware simulator stopped")
}
