package telemetry

import "github.com/prometheus/client_golang/prometheus"

const skillswapNamespace string = "skillswap"

var (
	promConnectionsTotal prometheus.Gauge
	promRoomsTotal       prometheus.Gauge
	RelayedMessages      *prometheus.CounterVec
	JoinFailures         *prometheus.CounterVec
)

func init() {
	promConnectionsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: skillswapNamespace,
		Subsystem: "signaling",
		Name:      "connections_total",
	})

	promRoomsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: skillswapNamespace,
		Subsystem: "signaling",
		Name:      "rooms_total",
	})

	RelayedMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: skillswapNamespace,
			Subsystem: "signaling",
			Name:      "relayed_messages",
		},
		[]string{"method"},
	)

	JoinFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: skillswapNamespace,
			Subsystem: "signaling",
			Name:      "join_failures",
		},
		[]string{"reason"},
	)

	prometheus.MustRegister(promConnectionsTotal)
	prometheus.MustRegister(promRoomsTotal)
	prometheus.MustRegister(RelayedMessages)
	prometheus.MustRegister(JoinFailures)
}

func ConnectionOpened() {
	promConnectionsTotal.Inc()
}

func ConnectionClosed() {
	promConnectionsTotal.Dec()
}

func SetRoomsTotal(n int) {
	promRoomsTotal.Set(float64(n))
}
