package metric

import (
	"guestlist/src-server/utils"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RsvpSubmissions counts rsvp submissions by outcome: created, invalid, error.
var RsvpSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "guestlist_rsvp_submissions_total",
	Help: "Rsvp submissions by outcome",
}, []string{"outcome"})

// RsvpDestroys counts destroy requests by outcome: destroyed, ignored, error.
var RsvpDestroys = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "guestlist_rsvp_destroys_total",
	Help: "Rsvp destroy requests by outcome",
}, []string{"outcome"})

func register(gauge prometheus.Gauge, name string) {
	if err := prometheus.Register(gauge); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register metric", "name", name, "error", err)
			return
		}
	}
	slog.Debug("metric registered", "name", name)
	gauge.Set(0)
}

func unregister(gauge prometheus.Gauge, name string) {
	switch prometheus.Unregister(gauge) {
	case true:
		slog.Debug("metric unregistered", "name", name)
	case false:
		slog.Warn("metric not registered", "name", name)
	}
}

func databaseEmptyRead(as *utils.AppState, tickerInterval time.Duration) {
	const name = "guestlist_database_empty_read_microsec"
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: "The latency of an empty database read in microseconds",
	})
	register(gauge, name)
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(gauge, name)
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				gauge.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

// latest reports the last value sent on ch and drops back to 0 when nothing
// arrived for clearTickerInterval.
func latest(as *utils.AppState, name string, help string, ch chan float64, clearTickerInterval time.Duration) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
	register(gauge, name)
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(gauge, name)
				return
			case latency := <-ch:
				gauge.Set(latency)
				clearTicker.Reset(clearTickerInterval)
			case <-clearTicker.C:
				gauge.Set(0)
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, tickerInterval)
	latest(as,
		"guestlist_database_read_microsec",
		"The latency of a database read in microseconds",
		as.MetricChans.DatabaseRead,
		clearTickerInterval,
	)
	latest(as,
		"guestlist_database_write_microsec",
		"The latency of a database write in microseconds",
		as.MetricChans.DatabaseWrite,
		clearTickerInterval,
	)
}
