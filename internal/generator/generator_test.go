package generator_test

import (
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/prompted/iotplatform/internal/generator"
)

func hasPrecision(v float64, places int) bool {
	scaled := v * math.Pow10(places)
	return math.Abs(scaled-math.Round(scaled)) < 1e-3
}

func TestGenerateBoundsAndPrecision(t *testing.T) {
	devices := []string{"IBEX", "Kubos01", "SIRIUS-1"}
	g := generator.New(devices, rand.NewPCG(1, 2))

	ranges := []generator.Ranges{
		generator.DefaultRanges,
		{High: 1, Low: 0, RateHigh: 0.5, RateLow: -0.5},
		{High: 100, Low: 99.9999, RateHigh: 1, RateLow: 0.999999},
	}

	for _, r := range ranges {
		for range 2000 {
			rec := g.Generate(r)

			if !slices.Contains(devices, rec.DeviceID) {
				t.Fatalf("device %q not in allow-list", rec.DeviceID)
			}
			for _, v := range []float64{rec.QX, rec.QY, rec.QZ, rec.QW, rec.Humidity, rec.Temperature} {
				if v < r.Low || v >= r.High {
					t.Fatalf("value %v outside [%v, %v)", v, r.Low, r.High)
				}
			}
			for _, v := range []float64{rec.EX, rec.EY, rec.EZ} {
				if v < r.RateLow || v >= r.RateHigh {
					t.Fatalf("rate %v outside [%v, %v)", v, r.RateLow, r.RateHigh)
				}
			}
			for _, v := range []float64{rec.QX, rec.QY, rec.QZ} {
				if !hasPrecision(v, 4) {
					t.Fatalf("orientation %v has more than 4 decimals", v)
				}
			}
			for _, v := range []float64{rec.EX, rec.EY, rec.EZ, rec.QW, rec.Humidity, rec.Temperature} {
				if !hasPrecision(v, 6) {
					t.Fatalf("value %v has more than 6 decimals", v)
				}
			}
			if rec.ID != "" || rec.Time != 0 || !rec.CreatedAt.IsZero() {
				t.Fatalf("generator must leave identity and time unset: %+v", rec)
			}
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := generator.New([]string{"IBEX", "Kubos01"}, rand.NewPCG(7, 7))
	b := generator.New([]string{"IBEX", "Kubos01"}, rand.NewPCG(7, 7))

	for range 10 {
		if a.Generate(generator.DefaultRanges) != b.Generate(generator.DefaultRanges) {
			t.Fatal("same seed must produce the same sequence")
		}
	}
}

func TestGenerateN(t *testing.T) {
	g := generator.New([]string{"IBEX"}, rand.NewPCG(3, 4))
	recs := g.GenerateN(3, generator.DefaultRanges)
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		low    float64
		high   float64
		places int
		want   float64
	}{
		{name: "plain", v: 1.234567, low: 0, high: 10, places: 4, want: 1.2346},
		{name: "rounds onto high", v: 0.99999, low: 0, high: 1, places: 4, want: 0.9999},
		{name: "rounds below low", v: 0.50004, low: 0.50005, high: 1, places: 4, want: 0.5001},
		{name: "negative", v: -19.9999999, low: -20, high: 20, places: 6, want: -20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generator.Round(tt.v, tt.low, tt.high, tt.places)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Round(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		return path
	}

	t.Run("full profile", func(t *testing.T) {
		path := write("full.yaml", `
devices: [IBEX, Orion MPCV]
ranges:
  high: 100
  low: 0
  rateHigh: 5
  rateLow: -5
`)
		p, err := generator.LoadProfile(path)
		if err != nil {
			t.Fatalf("LoadProfile: %v", err)
		}
		if len(p.Devices) != 2 || p.Devices[1] != "Orion MPCV" {
			t.Errorf("devices = %v", p.Devices)
		}
		if p.Ranges.High != 100 || p.Ranges.RateLow != -5 {
			t.Errorf("ranges = %+v", p.Ranges)
		}
	})

	t.Run("ranges default", func(t *testing.T) {
		path := write("devices.yaml", "devices: [IBEX]\n")
		p, err := generator.LoadProfile(path)
		if err != nil {
			t.Fatalf("LoadProfile: %v", err)
		}
		if p.Ranges != generator.DefaultRanges {
			t.Errorf("ranges = %+v, want defaults", p.Ranges)
		}
	})

	t.Run("inverted ranges", func(t *testing.T) {
		path := write("bad.yaml", `
devices: [IBEX]
ranges: {high: 0, low: 10, rateHigh: 1, rateLow: 0}
`)
		if _, err := generator.LoadProfile(path); err == nil {
			t.Fatal("expected error for low >= high")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := generator.LoadProfile(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
