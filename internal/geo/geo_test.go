package geo

import (
	"math"
	"testing"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	points := []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 13.0827, Longitude: 80.2707},
		{Latitude: -45.5, Longitude: 170.2},
	}

	for _, p := range points {
		if d := Distance(p, p); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistance_Symmetry(t *testing.T) {
	a := Point{Latitude: 13.0827, Longitude: 80.2707}
	b := Point{Latitude: 13.0780, Longitude: 80.2690}

	if d1, d2 := Distance(a, b), Distance(b, a); d1 != d2 {
		t.Errorf("Distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestDistance_KnownValues(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Point
		want      float64
		tolerance float64
	}{
		{
			name:      "village center to market road",
			a:         Point{Latitude: 13.0827, Longitude: 80.2707},
			b:         Point{Latitude: 13.0822, Longitude: 80.2755},
			want:      0.52,
			tolerance: 0.05,
		},
		{
			name:      "chennai to delhi",
			a:         Point{Latitude: 13.0827, Longitude: 80.2707},
			b:         Point{Latitude: 28.7041, Longitude: 77.1025},
			want:      1757,
			tolerance: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Distance = %v, want %v +- %v", got, tt.want, tt.tolerance)
			}
		})
	}
}
