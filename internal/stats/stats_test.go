package stats

import (
	"math"
	"reflect"
	"testing"
)

func fp(v float64) *float64 { return &v }

func TestSpearmanSelfCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	r := Spearman(x, x)
	if r == nil {
		t.Fatal("expected coefficient, got nil")
	}
	if math.Abs(*r-1.0) > 1e-9 {
		t.Errorf("Spearman(x, x) = %v, want 1.0 within 1e-9", *r)
	}
}

func TestRankTransformAverageTies(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{"no ties", []float64{30, 10, 20}, []float64{3, 1, 2}},
		{"pair tie", []float64{10, 20, 20, 30}, []float64{1, 2.5, 2.5, 4}},
		{"triple tie", []float64{5, 5, 5}, []float64{2, 2, 2}},
		{"tie at top", []float64{1, 9, 9}, []float64{1, 2.5, 2.5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RankTransform(tc.values)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("RankTransform(%v) = %v, want %v", tc.values, got, tc.want)
			}
		})
	}
}

func TestPearsonMinimumPairs(t *testing.T) {
	if r := Pearson([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 4}); r != nil {
		t.Errorf("4 pairs should be below the minimum, got %v", *r)
	}
	if r := Pearson(nil, nil); r != nil {
		t.Errorf("empty input should yield nil, got %v", *r)
	}
}

func TestPearsonZeroVariance(t *testing.T) {
	flat := []float64{3, 3, 3, 3, 3}
	ramp := []float64{1, 2, 3, 4, 5}
	if r := Pearson(flat, ramp); r != nil {
		t.Errorf("zero-variance x should yield nil, got %v", *r)
	}
	if r := Pearson(ramp, flat); r != nil {
		t.Errorf("zero-variance y should yield nil, got %v", *r)
	}
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	up := Pearson(x, []float64{2, 4, 6, 8, 10})
	if up == nil || *up != 1.0 {
		t.Errorf("perfect positive: got %v, want exactly 1.0", up)
	}
	down := Pearson(x, []float64{5, 4, 3, 2, 1})
	if down == nil || *down != -1.0 {
		t.Errorf("perfect negative: got %v, want exactly -1.0", down)
	}
}

func TestSpearmanMonotonicNonlinear(t *testing.T) {
	// Rank correlation sees through monotone nonlinearity.
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 8, 27, 64, 125}
	r := Spearman(x, y)
	if r == nil {
		t.Fatal("expected coefficient, got nil")
	}
	if math.Abs(*r-1.0) > 1e-9 {
		t.Errorf("Spearman over cubes = %v, want 1.0", *r)
	}
}

func TestPairwiseCompleteMasking(t *testing.T) {
	nan := math.NaN()
	x := []*float64{fp(1), nil, fp(3), fp(4), &nan, fp(6)}
	y := []*float64{fp(10), fp(20), nil, fp(40), fp(50), fp(60)}

	xs, ys := PairwiseComplete(x, y)
	if !reflect.DeepEqual(xs, []float64{1, 4, 6}) {
		t.Errorf("xs = %v, want [1 4 6]", xs)
	}
	if !reflect.DeepEqual(ys, []float64{10, 40, 60}) {
		t.Errorf("ys = %v, want [10 40 60]", ys)
	}
}

func TestMeanEmptyDefaultsToZero(t *testing.T) {
	if m := Mean(nil); m != 0 {
		t.Errorf("Mean(nil) = %v, want 0", m)
	}
	if m := Mean([]float64{2, 4, 6}); m != 4 {
		t.Errorf("Mean = %v, want 4", m)
	}
}

func TestMedianRules(t *testing.T) {
	if m := Median(nil); m != nil {
		t.Errorf("Median(nil) = %v, want nil", *m)
	}
	if m := Median([]float64{5, 1, 3}); m == nil || *m != 3 {
		t.Errorf("odd median = %v, want 3", m)
	}
	if m := Median([]float64{4, 1, 2, 3}); m == nil || *m != 2.5 {
		t.Errorf("even median = %v, want 2.5", m)
	}
}

func TestDetrendIsCausal(t *testing.T) {
	values := []*float64{fp(1), fp(2), fp(3), fp(4), fp(5)}
	out := Detrend(values, 3)

	// Position 0 only sees itself; position 2 sees mean(1,2,3)=2.
	if out[0] == nil || *out[0] != 0 {
		t.Errorf("out[0] = %v, want 0", out[0])
	}
	if out[1] == nil || *out[1] != 0.5 {
		t.Errorf("out[1] = %v, want 0.5", out[1])
	}
	if out[2] == nil || *out[2] != 1 {
		t.Errorf("out[2] = %v, want 1", out[2])
	}
	// Steady slope settles at a constant residual once the window fills.
	if out[4] == nil || *out[4] != 1 {
		t.Errorf("out[4] = %v, want 1", out[4])
	}
}

func TestDetrendSkipsAbsentValues(t *testing.T) {
	values := []*float64{fp(10), nil, fp(14)}
	out := Detrend(values, 3)

	if out[1] != nil {
		t.Errorf("absent input should stay absent, got %v", *out[1])
	}
	// Window for position 2 holds 10 and 14 only: residual 14-12=2.
	if out[2] == nil || *out[2] != 2 {
		t.Errorf("out[2] = %v, want 2", out[2])
	}
}

func TestHistogramEdgeClamping(t *testing.T) {
	bins := Histogram([]float64{0, 15, 30}, 15)
	if len(bins) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(bins))
	}
	if bins[0].Lo != 0 || bins[0].Hi != 15 || bins[0].Count != 1 {
		t.Errorf("bin 0 = %+v", bins[0])
	}
	// 30 sits on the exact top edge and clamps into the last bin.
	if bins[1].Lo != 15 || bins[1].Hi != 30 || bins[1].Count != 2 {
		t.Errorf("bin 1 = %+v", bins[1])
	}
}

func TestHistogramDegenerateInputs(t *testing.T) {
	if bins := Histogram(nil, 10); bins != nil {
		t.Errorf("empty input: expected nil, got %v", bins)
	}
	if bins := Histogram([]float64{1, 2}, 0); bins != nil {
		t.Errorf("zero width: expected nil, got %v", bins)
	}
	// All values identical on a boundary still yields one bin.
	bins := Histogram([]float64{10, 10}, 5)
	if len(bins) != 1 || bins[0].Count != 2 {
		t.Errorf("degenerate range: got %v", bins)
	}
}

func TestCorrelateMethodDispatch(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 8, 27, 64, 125}

	s := Correlate("spearman", x, y)
	p := Correlate("pearson", x, y)
	if s == nil || p == nil {
		t.Fatal("expected coefficients from both methods")
	}
	// Spearman is exactly 1 on a monotone map; Pearson is not.
	if math.Abs(*s-1.0) > 1e-9 {
		t.Errorf("spearman = %v", *s)
	}
	if *p >= 1.0-1e-9 {
		t.Errorf("pearson should fall short of 1 on cubes, got %v", *p)
	}
}
