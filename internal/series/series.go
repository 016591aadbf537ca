// Package series generates the synthetic historical PnL shown in the chart.
//
// Each desk follows a mean-reverting random walk: the first day is a uniform
// draw and every following day keeps Phi of the previous value plus zero-mean
// noise. Values that escape the band are pulled back just inside it with a
// random jitter so the chart never sits flat on the bound.
package series

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rovshanmuradov/pnl-dashboard/internal/money"
	"github.com/rovshanmuradov/pnl-dashboard/internal/random"
)

const dateLayout = "2006-01-02"

// DefaultDesks are the equity desks charted by the dashboard.
var DefaultDesks = []string{"US Equities", "EMEA Equities", "APAC Equities"}

// Point is one calendar day of desk PnL.
type Point struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

// Series is the immutable chart input.
type Series struct {
	Desks  []string `json:"desks"`
	Points []Point  `json:"points"`
}

// Options tunes the random walk.
type Options struct {
	Days    int
	Desks   []string
	Phi     float64 // mean reversion factor
	Initial float64 // day 0 is drawn from [-Initial, Initial]
	Noise   float64 // daily noise is drawn from [-Noise, Noise]
	Bound   float64
	Jitter  float64
}

// DefaultOptions returns the 60 day, three desk configuration.
func DefaultOptions() Options {
	desks := make([]string, len(DefaultDesks))
	copy(desks, DefaultDesks)

	return Options{
		Days:    60,
		Desks:   desks,
		Phi:     0.85,
		Initial: 500,
		Noise:   400,
		Bound:   2500,
		Jitter:  200,
	}
}

// Generate builds the series ending on the calendar day of now (UTC).
func Generate(src random.Source, now time.Time, opts Options) Series {
	if opts.Days <= 0 {
		return Series{Desks: opts.Desks}
	}

	y, m, d := now.UTC().Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(opts.Days - 1))

	points := make([]Point, 0, opts.Days)
	for i := 0; i < opts.Days; i++ {
		p := Point{
			Date:   start.AddDate(0, 0, i).Format(dateLayout),
			Values: make(map[string]float64, len(opts.Desks)),
		}

		for _, desk := range opts.Desks {
			var val float64
			if i == 0 {
				val = random.Uniform(src, -opts.Initial, opts.Initial)
			} else {
				prev := points[i-1].Values[desk]
				val = opts.Phi*prev + random.Uniform(src, -opts.Noise, opts.Noise)
			}
			p.Values[desk] = money.Round(clamp(src, val, opts.Bound, opts.Jitter))
		}

		points = append(points, p)
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	desks := make([]string, len(opts.Desks))
	copy(desks, opts.Desks)
	return Series{Desks: desks, Points: points}
}

func clamp(src random.Source, val, bound, jitter float64) float64 {
	switch {
	case val < -bound:
		return -bound + random.Uniform(src, 0, jitter)
	case val > bound:
		return bound - random.Uniform(src, 0, jitter)
	default:
		return val
	}
}

// Len returns the number of days.
func (s Series) Len() int {
	return len(s.Points)
}

// Values returns one desk's values in date order.
func (s Series) Values(desk string) []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Values[desk]
	}
	return out
}

// Last returns the most recent value of a desk.
func (s Series) Last(desk string) float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Values[desk]
}

// Total sums a desk over the whole window.
func (s Series) Total(desk string) float64 {
	total := 0.0
	for _, p := range s.Points {
		total += p.Values[desk]
	}
	return money.Round(total)
}

// Range returns the lowest and highest value of a desk.
func (s Series) Range(desk string) (lo, hi float64) {
	for i, p := range s.Points {
		v := p.Values[desk]
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Dates returns the ISO dates in order.
func (s Series) Dates() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}

// ErrInvalidSeries is wrapped by every Validate failure.
var ErrInvalidSeries = errors.New("invalid series")

// Validate checks that dates are strictly increasing consecutive days and that
// every value sits within [-bound, bound].
func (s Series) Validate(bound float64) error {
	var prev time.Time
	for i, p := range s.Points {
		day, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			return fmt.Errorf("%w: point %d: %v", ErrInvalidSeries, i, err)
		}
		if i > 0 && !day.Equal(prev.AddDate(0, 0, 1)) {
			return fmt.Errorf("%w: %s does not follow %s", ErrInvalidSeries, p.Date, prev.Format(dateLayout))
		}
		prev = day

		for _, desk := range s.Desks {
			v, ok := p.Values[desk]
			if !ok {
				return fmt.Errorf("%w: %s missing desk %q", ErrInvalidSeries, p.Date, desk)
			}
			if v < -bound || v > bound {
				return fmt.Errorf("%w: %s %s=%.2f outside ±%.0f", ErrInvalidSeries, p.Date, desk, v, bound)
			}
		}
	}
	return nil
}
