package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wlan-bridge/wlan-bridge/pkg/dot11"
)

// HandleHealth health check handler
func (s *RESTServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now(),
	})
}

// HandleRoot root handler
func (s *RESTServer) HandleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": s.config.Server.Name,
		"version": s.config.Server.Version,
		"health":  "/api/v1/health",
	})
}

// HandleGetDevice returns the full device snapshot.
func (s *RESTServer) HandleGetDevice(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.device.Snapshot())
}

// HandleGetInterfaces returns the active interface, if any.
func (s *RESTServer) HandleGetInterfaces(w http.ResponseWriter, r *http.Request) {
	snap := s.device.Snapshot()
	if snap.Interface == nil {
		s.respondJSON(w, http.StatusOK, map[string]interface{}{"interfaces": []interface{}{}})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"interfaces": []interface{}{snap.Interface},
		"down":       snap.InterfaceDown,
	})
}

// HandleGetChannel returns the operating channel and queue state.
func (s *RESTServer) HandleGetChannel(w http.ResponseWriter, r *http.Request) {
	snap := s.device.Snapshot()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"channel":             snap.Channel,
		"connected_channel":   snap.ConnectedChannel,
		"data_queues_blocked": snap.DataQueuesBlocked,
		"tx_power":            snap.TxPower,
		"antenna":             snap.Antenna,
	})
}

// HandleGetSupportedChannels returns a band's channel table with current
// regulatory flags.
func (s *RESTServer) HandleGetSupportedChannels(w http.ResponseWriter, r *http.Request) {
	var band dot11.Band
	switch chi.URLParam(r, "band") {
	case "2ghz":
		band = dot11.Band2GHz
	case "5ghz":
		band = dot11.Band5GHz
	default:
		s.respondError(w, http.StatusBadRequest, "unknown band, use 2ghz or 5ghz")
		return
	}

	chans := s.device.SupportedChannels(band)
	out := make([]map[string]interface{}, 0, len(chans))
	for _, ch := range chans {
		out = append(out, map[string]interface{}{
			"hw_value":    ch.HWValue,
			"center_freq": ch.CenterFreq,
			"radar":       ch.Flags&dot11.ChanRadar != 0,
			"no_ir":       ch.Flags&dot11.ChanNoInitRadiation != 0,
			"disabled":    ch.Flags&dot11.ChanDisabled != 0,
		})
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"band":     band.String(),
		"channels": out,
	})
}

// HandleGetQoS returns the cached EDCA parameter sets in firmware queue order.
func (s *RESTServer) HandleGetQoS(w http.ResponseWriter, r *http.Request) {
	snap := s.device.Snapshot()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"queues": map[string]interface{}{
			"bk": snap.QoS[dot11.QueueBK],
			"be": snap.QoS[dot11.QueueBE],
			"vi": snap.QoS[dot11.QueueVI],
			"vo": snap.QoS[dot11.QueueVO],
		},
		"rts_threshold": snap.RTSThreshold,
	})
}

// HandleGetAggregation returns the TX aggregation session table.
func (s *RESTServer) HandleGetAggregation(w http.ResponseWriter, r *http.Request) {
	snap := s.device.Snapshot()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": snap.Aggregation,
	})
}

// HandleGetStats returns the data-path counters.
func (s *RESTServer) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	snap := s.device.Snapshot()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"rx_delivered": snap.RxDelivered,
		"rx_dropped":   snap.RxDropped,
		"tx_completed": snap.TxCompleted,
		"tx_failed":    snap.TxFailed,
	})
}

// respondJSON responds with JSON
func (s *RESTServer) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondError responds with error
func (s *RESTServer) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}
