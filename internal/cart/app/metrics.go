package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "furnistore_cart_mutations_total",
		Help: "Cart mutations by store mode, operation and result.",
	}, []string{"mode", "op", "result"})

	mergeLinesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "furnistore_cart_merge_lines_total",
		Help: "Per-line outcomes of the merge-on-login drain.",
	}, []string{"result"})
)
