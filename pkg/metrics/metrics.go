package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "livetranslate"

// registered on the default registry, served by fiberprometheus when enabled
var (
	OpenConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "open_connections",
		Help:      "Websocket connections currently open.",
	})

	ActiveRecognizers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_recognizers",
		Help:      "Recognizers confirmed started and not yet released.",
	})

	OutboundMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbound_messages_total",
		Help:      "Messages sent to clients by type.",
	}, []string{"type"})

	DroppedFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dropped_audio_frames_total",
		Help:      "Inbound audio frames that were not fed to a recognizer.",
	}, []string{"reason"})
)

const (
	DropNotActive   = "not_active"
	DropEmpty       = "empty"
	DropUnsupported = "unsupported_container"
	DropFeedFailed  = "feed_failed"
	DropInvalid     = "invalid"
)
