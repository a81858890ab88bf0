package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carscout_searches_total",
		Help: "Form searches executed.",
	})
	assistantTurnsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carscout_assistant_turns_total",
		Help: "Assistant conversation turns handled.",
	})
	assistantSearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carscout_assistant_searches_total",
		Help: "Assistant-triggered searches executed.",
	})
	refreshTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carscout_ingest_refresh_total",
		Help: "Scheduled CSV refresh runs.",
	})
)
