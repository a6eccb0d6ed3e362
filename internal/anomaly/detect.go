package anomaly

import (
	"math"
	"sort"
)

// ScoredPoint augments a series point with its rolling baseline and verdict.
// RollingMean, RollingStd and ZScore are NaN when the window held fewer than
// MinPeriods observations or the window variance was zero.
type ScoredPoint struct {
	Point
	RollingMean float64
	RollingStd  float64
	ZScore      float64
	IsAnomaly   bool
	Type        string // "spike", "drop" or "normal"
}

// DetectAnomalies scores every point of a series against a trailing rolling
// baseline computed independently per station. The window covers the last
// Window observations including the current one; it is observation-based,
// so gaps in the calendar do not shrink it. A point is anomalous when its
// z-score is defined and |z| reaches the threshold.
func DetectAnomalies(s *Series, cfg Config) []ScoredPoint {
	cfg = cfg.normalized()

	points := make([]Point, len(s.Points))
	copy(points, s.Points)
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Station != points[j].Station {
			return points[i].Station < points[j].Station
		}
		return points[i].Bucket.Before(points[j].Bucket)
	})

	scored := make([]ScoredPoint, 0, len(points))
	start := 0
	for i := 1; i <= len(points); i++ {
		if i == len(points) || points[i].Station != points[start].Station {
			scored = append(scored, scoreGroup(points[start:i], cfg)...)
			start = i
		}
	}
	return scored
}

// scoreGroup applies the rolling computation to one station's ordered points.
func scoreGroup(group []Point, cfg Config) []ScoredPoint {
	out := make([]ScoredPoint, len(group))
	for i, p := range group {
		lo := i - cfg.Window + 1
		if lo < 0 {
			lo = 0
		}
		window := group[lo : i+1]

		mean, std := math.NaN(), math.NaN()
		if len(window) >= cfg.MinPeriods {
			mean, std = rollingStats(window)
			if std == 0 {
				// A flat window would make every deviation infinite.
				std = math.NaN()
			}
		}

		z := math.NaN()
		if !math.IsNaN(std) {
			z = (p.Value - mean) / std
		}

		sp := ScoredPoint{
			Point:       p,
			RollingMean: mean,
			RollingStd:  std,
			ZScore:      z,
			Type:        "normal",
		}
		switch {
		case math.IsNaN(z):
		case z >= cfg.ZThreshold:
			sp.IsAnomaly = true
			sp.Type = "spike"
		case z <= -cfg.ZThreshold:
			sp.IsAnomaly = true
			sp.Type = "drop"
		}
		out[i] = sp
	}
	return out
}

// rollingStats returns the mean and population standard deviation of the
// window's values.
func rollingStats(window []Point) (mean, std float64) {
	n := float64(len(window))
	var sum float64
	for _, p := range window {
		sum += p.Value
	}
	mean = sum / n

	var sq float64
	for _, p := range window {
		d := p.Value - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / n)
}
