// Package generator produces synthetic telemetry readings for simulation.
package generator

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/prompted/iotplatform/internal/models"
)

const (
	orientationPlaces = 4
	ratePlaces        = 6
)

// Ranges bounds generated values: orientation, battery and environmental
// fields fall in [Low, High), orientation rates in [RateLow, RateHigh).
type Ranges struct {
	High     float64 `yaml:"high"`
	Low      float64 `yaml:"low"`
	RateHigh float64 `yaml:"rateHigh"`
	RateLow  float64 `yaml:"rateLow"`
}

// DefaultRanges are the bounds used by the simulation endpoint.
var DefaultRanges = Ranges{High: 400000, Low: -400000, RateHigh: 20, RateLow: -20}

// Valid reports whether both intervals are non-empty.
func (r Ranges) Valid() bool {
	return r.Low < r.High && r.RateLow < r.RateHigh
}

// Generator draws records from a seeded source. It is safe for
// concurrent use.
type Generator struct {
	devices []string

	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a Generator over devices using src. A nil src seeds from
// the clock.
func New(devices []string, src rand.Source) *Generator {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>1|1)
	}
	d := make([]string, len(devices))
	copy(d, devices)
	return &Generator{devices: d, rnd: rand.New(src)}
}

// Devices returns a copy of the device allow-list.
func (g *Generator) Devices() []string {
	out := make([]string, len(g.devices))
	copy(out, g.devices)
	return out
}

// Generate returns one record with uniformly drawn values. ID, Time and
// CreatedAt are left for the storage gateway.
func (g *Generator) Generate(r Ranges) models.TelemetryRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	var rec models.TelemetryRecord
	if len(g.devices) > 0 {
		rec.DeviceID = g.devices[g.rnd.IntN(len(g.devices))]
	}

	rec.QX = g.draw(r.Low, r.High, orientationPlaces)
	rec.QY = g.draw(r.Low, r.High, orientationPlaces)
	rec.QZ = g.draw(r.Low, r.High, orientationPlaces)
	rec.EX = g.draw(r.RateLow, r.RateHigh, ratePlaces)
	rec.EY = g.draw(r.RateLow, r.RateHigh, ratePlaces)
	rec.EZ = g.draw(r.RateLow, r.RateHigh, ratePlaces)
	rec.QW = g.draw(r.Low, r.High, ratePlaces)
	rec.Humidity = g.draw(r.Low, r.High, ratePlaces)
	rec.Temperature = g.draw(r.Low, r.High, ratePlaces)
	return rec
}

// GenerateN returns n records.
func (g *Generator) GenerateN(n int, r Ranges) []models.TelemetryRecord {
	out := make([]models.TelemetryRecord, n)
	for i := range out {
		out[i] = g.Generate(r)
	}
	return out
}

func (g *Generator) draw(low, high float64, places int) float64 {
	v := low + g.rnd.Float64()*(high-low)
	return Round(v, low, high, places)
}

// Round rounds v to places decimals and keeps the result inside
// [low, high).
func Round(v, low, high float64, places int) float64 {
	scale := math.Pow10(places)
	out := math.Round(v*scale) / scale
	if out >= high {
		out = (math.Ceil(high*scale) - 1) / scale
	}
	if out < low {
		out = math.Ceil(low*scale) / scale
	}
	return out
}
