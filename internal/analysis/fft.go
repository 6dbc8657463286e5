package analysis

import (
	"errors"
	"math"
	"math/cmplx"
)

var ErrTooShort = errors.New("analysis: series too short")

// FFT is a radix-2 Cooley-Tukey transform. The input is zero padded to the
// next power of two.
func FFT(data []float64) []complex128 {
	n := nextPow2(len(data))
	padded := make([]float64, n)
	copy(padded, data)
	return fft(padded)
}

func fft(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns the magnitude of the first half of the FFT.
func PowerSpectrum(data []float64) []float64 {
	f := FFT(data)
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

// DominantPeriod estimates the period of a series sampled every interval
// seconds from the strongest non-zero frequency bin. The mean is removed
// first. Resolution is limited by the series length, and periods longer
// than the series cannot be detected.
func DominantPeriod(series []float64, interval float64) (float64, error) {
	if len(series) < 4 {
		return 0, ErrTooShort
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] == 0 {
		return 0, errors.New("analysis: no periodic component")
	}

	// Bin k of an n-point transform is k cycles per n samples.
	n := nextPow2(len(series))
	return float64(n) * interval / float64(best), nil
}
