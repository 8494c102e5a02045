package main

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/robertazzopardi/asteroids/server"

// Metrics holds the server's OTel instruments. They come from the global
// meter provider, which is a no-op unless one is installed. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	destroyed    metric.Int64Counter
	gamesOver    metric.Int64Counter
	tickDuration metric.Float64Histogram
}

// NewMetrics creates the instruments
func NewMetrics() (*Metrics, error) {
	m := otel.Meter(instrumentationName)
	var (
		mt  Metrics
		err error
	)

	mt.destroyed, err = m.Int64Counter(
		"asteroids.destroyed",
		metric.WithDescription("Asteroids destroyed by lasers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating destroyed counter: %w", err)
	}

	mt.gamesOver, err = m.Int64Counter(
		"games.over",
		metric.WithDescription("Finished games by reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating games counter: %w", err)
	}

	mt.tickDuration, err = m.Float64Histogram(
		"tick.duration",
		metric.WithDescription("Time spent in one simulation tick"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}

	return &mt, nil
}

// AsteroidsDestroyed adds n to the destroyed counter
func (m *Metrics) AsteroidsDestroyed(n int) {
	if m == nil {
		return
	}
	m.destroyed.Add(context.Background(), int64(n))
}

// GameOver counts a finished game
func (m *Metrics) GameOver(reason string) {
	if m == nil {
		return
	}
	m.gamesOver.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("reason", reason)))
}

// ObserveTick records how long a tick took
func (m *Metrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.tickDuration.Record(context.Background(), float64(d)/float64(time.Millisecond))
}
