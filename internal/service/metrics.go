package service

import "github.com/prometheus/client_golang/prometheus"

var (
	FaucetClaims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_faucet_claims_total",
			Help: "Faucet claim attempts by result",
		},
		[]string{"result"},
	)
	XPGranted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "loyalty_xp_granted_total",
			Help: "Total XP added to players",
		},
	)
	LevelUps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_level_ups_total",
			Help: "Levels attained by players, by tier",
		},
		[]string{"tier"},
	)
)

func init() {
	prometheus.MustRegister(FaucetClaims)
	prometheus.MustRegister(XPGranted)
	prometheus.MustRegister(LevelUps)
}
