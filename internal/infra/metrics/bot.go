package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var botUpdates = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bot_updates_total",
		Help: "Incoming Telegram updates by kind (command/callback/message).",
	},
	[]string{"kind"},
)

func init() {
	register(botUpdates)
}

func IncBotUpdate(kind string) {
	botUpdates.WithLabelValues(kind).Inc()
}
