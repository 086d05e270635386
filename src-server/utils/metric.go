package utils

import "time"

type Metric struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
}

// buffered so request handlers never wait on the collectors
func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:  make(chan float64, 64),
		DatabaseWrite: make(chan float64, 64),
	}
}

func (m *Metric) ObserveDatabaseRead(start time.Time) {
	observe(m.DatabaseRead, start)
}

func (m *Metric) ObserveDatabaseWrite(start time.Time) {
	observe(m.DatabaseWrite, start)
}

func observe(ch chan float64, start time.Time) {
	select {
	case ch <- float64(time.Since(start).Microseconds()):
	default:
	}
}
