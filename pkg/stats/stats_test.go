package stats

import "testing"

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      int
		want   float64
	}{
		{"empty", nil, 50, 0},
		{"single", []float64{5}, 50, 5},
		{"median", []float64{1, 2, 3, 4}, 50, 3},
		{"p95 clamps to last", []float64{1, 2}, 95, 2},
		{"p0 is first", []float64{1, 2, 3}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(tt.sorted, tt.p); got != tt.want {
				t.Errorf("Percentile(%v, %d) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := Mean([]float64{1, 2, 3}); got != 2 {
		t.Errorf("Mean = %v, want 2", got)
	}
}

func TestClamp01(t *testing.T) {
	if got := Clamp01(-0.5); got != 0 {
		t.Errorf("Clamp01(-0.5) = %v, want 0", got)
	}
	if got := Clamp01(1.5); got != 1 {
		t.Errorf("Clamp01(1.5) = %v, want 1", got)
	}
	if got := Clamp01(0.7); got != 0.7 {
		t.Errorf("Clamp01(0.7) = %v, want 0.7", got)
	}
}

func TestNormalizeCapped(t *testing.T) {
	if got := NormalizeCapped(500, 2000); got != 0.25 {
		t.Errorf("NormalizeCapped(500, 2000) = %v, want 0.25", got)
	}
	if got := NormalizeCapped(5000, 2000); got != 1 {
		t.Errorf("NormalizeCapped(5000, 2000) = %v, want 1", got)
	}
	if got := NormalizeCapped(5, 0); got != 0 {
		t.Errorf("NormalizeCapped with zero limit = %v, want 0", got)
	}
}
