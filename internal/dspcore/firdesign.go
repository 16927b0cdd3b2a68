package dspcore

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// band is one segment of a piecewise-constant desired amplitude response,
// expressed in frequency normalised to the Nyquist rate (0..0.5).
type band struct {
	lo, hi   float64
	desired  float64
	weight   float64
}

const gridDensity = 16

// DesignBandpass designs an equiripple FIR bandpass via the Parks-McClellan
// (Remez exchange) algorithm. loHz/hiHz are the centres of the lower and
// upper transition bands, so the passband runs from loHz+transitionHz/2 to
// hiHz-transitionHz/2; transitionHz is the full width of each transition
// band (default 100 Hz when <= 0, per spec).
// numTaps is forced to the next odd value.
func DesignBandpass(sampleRate, loHz, hiHz, transitionHz float64, numTaps int) ([]float64, error) {
	if transitionHz <= 0 {
		transitionHz = 100
	}
	numTaps = forceOdd(numTaps)

	nyq := sampleRate / 2
	loStop := (loHz - transitionHz/2) / nyq / 2
	loPass := (loHz + transitionHz/2) / nyq / 2
	hiPass := (hiHz - transitionHz/2) / nyq / 2
	hiStop := (hiHz + transitionHz/2) / nyq / 2

	if err := validateBandEdges(loStop, loPass, hiPass, hiStop); err != nil {
		return nil, err
	}

	bands := []band{
		{0, loStop, 0, 1},
		{loPass, hiPass, 1, 1},
		{hiStop, 0.5, 0, 1},
	}
	return designRemez(numTaps, bands)
}

// DesignHighpass designs an equiripple FIR highpass. transitionHz defaults
// to 500 Hz (per spec) when <= 0.
func DesignHighpass(sampleRate, cutoffHz, transitionHz float64, numTaps int) ([]float64, error) {
	if transitionHz <= 0 {
		transitionHz = 500
	}
	numTaps = forceOdd(numTaps)

	nyq := sampleRate / 2
	stopEdge := (cutoffHz - transitionHz/2) / nyq / 2
	passEdge := (cutoffHz + transitionHz/2) / nyq / 2

	if err := validateBandEdges(stopEdge, passEdge); err != nil {
		return nil, err
	}

	bands := []band{
		{0, stopEdge, 0, 1},
		{passEdge, 0.5, 1, 1},
	}
	return designRemez(numTaps, bands)
}

func forceOdd(n int) int {
	if n%2 == 0 {
		return n + 1
	}
	return n
}

func validateBandEdges(edges ...float64) error {
	for _, e := range edges {
		if math.IsNaN(e) || e <= 0 || e >= 0.5 {
			return &FilterDesignError{Reason: "band edge outside (0, 0.5) once normalised"}
		}
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return &FilterDesignError{Reason: "band edges collide or are out of order"}
		}
	}
	return nil
}

// ThresholdCrossingOffset returns, for an impulse response (taps, the
// output of a highpass designer applied to an impulse at time 0), the
// index of the first tap whose magnitude exceeds threshold/expectedAmplitude,
// measured as an offset from the centre (group-delay) tap. Returns 0 if no
// tap exceeds the scaled threshold.
func ThresholdCrossingOffset(taps []float64, threshold, expectedAmplitude float64) int {
	if expectedAmplitude == 0 {
		return 0
	}
	scaled := threshold / expectedAmplitude
	center := (len(taps) - 1) / 2
	for i, v := range taps {
		if math.Abs(v) > scaled {
			return i - center
		}
	}
	return 0
}

// designRemez runs the Parks-McClellan / Remez-exchange algorithm for a
// Type I (odd-length, symmetric) linear-phase FIR matching the piecewise
// desired response described by bands.
func designRemez(numTaps int, bands []band) ([]float64, error) {
	r := (numTaps + 1) / 2 // number of free cosine-series coefficients
	if r < 2 {
		return nil, &FilterDesignError{Reason: "filter too short to design"}
	}

	grid, desired, weight := buildDenseGrid(bands, r)
	if len(grid) < r+1 {
		return nil, &FilterDesignError{Reason: "dense grid too sparse for requested order"}
	}

	extrema := initialExtrema(len(grid), r+1)

	const maxIter = 40
	var delta float64
	for iter := 0; iter < maxIter; iter++ {
		x := make([]float64, r+1)
		y := make([]float64, r+1)
		for i, gi := range extrema {
			x[i] = math.Cos(2 * math.Pi * grid[gi])
		}

		ad := barycentricWeights(x)
		delta = computeDelta(ad, extrema, desired, weight)
		if math.IsNaN(delta) || math.IsInf(delta, 0) {
			return nil, &FilterDesignError{Reason: "remez exchange failed to converge (degenerate delta)"}
		}

		for i, gi := range extrema {
			sign := 1.0
			if i%2 == 1 {
				sign = -1.0
			}
			y[i] = desired[gi] + sign*delta/weight[gi]
		}

		errFn := make([]float64, len(grid))
		for gi := range grid {
			xg := math.Cos(2 * math.Pi * grid[gi])
			a := barycentricEval(x, y, ad, xg)
			errFn[gi] = weight[gi] * (a - desired[gi])
		}

		newExtrema := findExtrema(errFn, r+1, extrema)
		if sameExtrema(newExtrema, extrema) {
			extrema = newExtrema
			break
		}
		extrema = newExtrema
	}

	x := make([]float64, r+1)
	y := make([]float64, r+1)
	for i, gi := range extrema {
		x[i] = math.Cos(2 * math.Pi * grid[gi])
	}
	ad := barycentricWeights(x)
	delta = computeDelta(ad, extrema, desired, weight)
	for i, gi := range extrema {
		sign := 1.0
		if i%2 == 1 {
			sign = -1.0
		}
		y[i] = desired[gi] + sign*delta/weight[gi]
	}

	a, err := sampleCosineCoefficients(x, y, ad, r)
	if err != nil {
		return nil, err
	}

	return cosineCoefficientsToTaps(a, numTaps), nil
}

func buildDenseGrid(bands []band, r int) (freqs, desired, weight []float64) {
	total := 0.0
	for _, b := range bands {
		total += b.hi - b.lo
	}
	if total <= 0 {
		return nil, nil, nil
	}
	pointsTarget := gridDensity * r
	for _, b := range bands {
		width := b.hi - b.lo
		if width <= 0 {
			continue
		}
		n := int(math.Ceil(float64(pointsTarget) * width / total))
		if n < 2 {
			n = 2
		}
		for i := 0; i < n; i++ {
			f := b.lo + width*float64(i)/float64(n-1)
			freqs = append(freqs, f)
			desired = append(desired, b.desired)
			weight = append(weight, b.weight)
		}
	}
	return freqs, desired, weight
}

func initialExtrema(gridLen, count int) []int {
	idx := make([]int, count)
	if count == 1 {
		idx[0] = 0
		return idx
	}
	for i := 0; i < count; i++ {
		idx[i] = i * (gridLen - 1) / (count - 1)
	}
	return idx
}

// barycentricWeights computes the barycentric Lagrange weights
// w_i = 1 / prod_{j != i} (x_i - x_j).
func barycentricWeights(x []float64) []float64 {
	n := len(x)
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		p := 1.0
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			p *= x[i] - x[j]
		}
		w[i] = 1.0 / p
	}
	return w
}

// computeDelta solves for the common ripple magnitude that makes the
// interpolation conditions A(x_i) = D_i + (-1)^i*delta/W_i consistent,
// using the closed form from the Parks-McClellan derivation.
func computeDelta(ad []float64, extrema []int, desired, weight []float64) float64 {
	var num, den float64
	for i, gi := range extrema {
		sign := 1.0
		if i%2 == 1 {
			sign = -1.0
		}
		num += ad[i] * desired[gi]
		den += ad[i] * sign / weight[gi]
	}
	return num / den
}

// barycentricEval evaluates the degree-r interpolating polynomial through
// (x_i, y_i) at point xq using the barycentric formula; falls back to the
// exact node value when xq coincides with a node.
func barycentricEval(x, y, ad []float64, xq float64) float64 {
	var num, den float64
	for i := range x {
		d := xq - x[i]
		if d == 0 {
			return y[i]
		}
		t := ad[i] / d
		num += t * y[i]
		den += t
	}
	return num / den
}

// findExtrema scans the error curve for local extrema (plus both grid
// endpoints) and returns the count largest in magnitude, in grid order;
// sign alternation of the result is not checked. Falls back to the
// previous extremal set if the grid yields fewer than count candidates
// (can happen very close to convergence).
func findExtrema(errFn []float64, count int, previous []int) []int {
	var candidates []int
	n := len(errFn)
	if n == 0 {
		return previous
	}
	if n == 1 || errFn[0] > errFn[1] || errFn[0] < errFn[1] {
		candidates = append(candidates, 0)
	}
	for i := 1; i < n-1; i++ {
		if (errFn[i] >= errFn[i-1] && errFn[i] >= errFn[i+1]) ||
			(errFn[i] <= errFn[i-1] && errFn[i] <= errFn[i+1]) {
			candidates = append(candidates, i)
		}
	}
	if n > 1 {
		candidates = append(candidates, n-1)
	}

	// Deduplicate adjacent plateaus.
	dedup := candidates[:0:0]
	for _, c := range candidates {
		if len(dedup) > 0 && c == dedup[len(dedup)-1] {
			continue
		}
		dedup = append(dedup, c)
	}
	candidates = dedup

	if len(candidates) < count {
		return previous
	}

	// Reduce to exactly `count` extrema by repeatedly dropping the
	// candidate with the smallest error magnitude, whatever its sign.
	for len(candidates) > count {
		worst := 0
		worstVal := math.Abs(errFn[candidates[0]])
		for i, c := range candidates {
			if math.Abs(errFn[c]) < worstVal {
				worst = i
				worstVal = math.Abs(errFn[c])
			}
		}
		candidates = append(candidates[:worst], candidates[worst+1:]...)
	}
	return candidates
}

func sameExtrema(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sampleCosineCoefficients recovers the r coefficients a_k of
// A(w) = sum_k a_k cos(k*w) by evaluating the barycentric interpolant at r
// uniformly spaced frequencies and solving the resulting square cosine
// system directly.
func sampleCosineCoefficients(x, y, ad []float64, r int) ([]float64, error) {
	w := make([]float64, r)
	samples := make([]float64, r)
	m := make([][]float64, r)
	for j := 0; j < r; j++ {
		if r == 1 {
			w[j] = 0
		} else {
			w[j] = math.Pi * float64(j) / float64(r-1)
		}
		xq := math.Cos(w[j])
		samples[j] = barycentricEval(x, y, ad, xq)
		row := make([]float64, r)
		for k := 0; k < r; k++ {
			row[k] = math.Cos(float64(k) * w[j])
		}
		m[j] = row
	}
	a, err := solveLinearSystem(m, samples)
	if err != nil {
		return nil, &FilterDesignError{Reason: "degenerate cosine system while recovering taps"}
	}
	return a, nil
}

// cosineCoefficientsToTaps maps the cosine-series coefficients of a Type I
// linear-phase filter to the symmetric impulse response.
func cosineCoefficientsToTaps(a []float64, numTaps int) []float64 {
	taps := make([]float64, numTaps)
	center := (numTaps - 1) / 2
	taps[center] = a[0]
	for n := 1; n < len(a); n++ {
		taps[center+n] = a[n] / 2
		taps[center-n] = a[n] / 2
	}
	return taps
}

// solveLinearSystem solves m*x = b, the square cosine system produced by
// sampleCosineCoefficients, via gonum's LU-backed Dense.Solve.
func solveLinearSystem(m [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	flat := make([]float64, 0, n*n)
	for _, row := range m {
		flat = append(flat, row...)
	}
	a := mat.NewDense(n, n, flat)
	rhs := mat.NewDense(n, 1, append([]float64(nil), b...))

	var x mat.Dense
	if err := x.Solve(a, rhs); err != nil {
		return nil, &FilterDesignError{Reason: "singular system"}
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = x.At(i, 0)
	}
	return out, nil
}
