package ranging_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OilyCannelloni/simplex-mesh/ranging"
)

func TestFilter_OptionViolations(t *testing.T) {
	t.Parallel()

	_, err := ranging.New(ranging.WithMaxSamples(0))
	require.ErrorIs(t, err, ranging.ErrOptionViolation)

	_, err = ranging.New(ranging.WithMinSamples(-1))
	require.ErrorIs(t, err, ranging.ErrOptionViolation)

	_, err = ranging.New(ranging.WithMedianWindow(0))
	require.ErrorIs(t, err, ranging.ErrOptionViolation)

	_, err = ranging.New(ranging.WithEstimator(ranging.Estimator(42)))
	require.ErrorIs(t, err, ranging.ErrOptionViolation)
}

// TestFilter_MinSampleBoundary: no estimate below the minimum sample
// count, an estimate at exactly the minimum.
func TestFilter_MinSampleBoundary(t *testing.T) {
	t.Parallel()

	f, err := ranging.New()
	require.NoError(t, err)

	for i := 0; i < 9; i++ {
		f.Add(5)
		_, ok := f.Value()
		require.Falsef(t, ok, "estimate after %d samples", i+1)
	}

	f.Add(5)
	v, ok := f.Value()
	require.True(t, ok, "no estimate at exactly 10 samples")
	require.InDelta(t, 5.0, v, 1e-12)
}

// TestFilter_Convergence: 30 samples around 5 with a deterministic
// ±0.2-amplitude ripple settle within ±0.15 of 5.
func TestFilter_Convergence(t *testing.T) {
	t.Parallel()

	f, err := ranging.New()
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		// Bounded zero-mean ripple standing in for Gaussian noise.
		f.Add(5 + 0.2*math.Sin(float64(i)*2.3))
	}
	v, ok := f.Value()
	require.True(t, ok)
	require.InDelta(t, 5.0, v, 0.15)
}

// TestFilter_OutlierSuppression: isolated spikes vanish in the median
// window and barely move the estimate.
func TestFilter_OutlierSuppression(t *testing.T) {
	t.Parallel()

	f, err := ranging.New()
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		if i == 7 || i == 14 {
			f.Add(50) // ToF glitch
			continue
		}
		f.Add(5)
	}
	v, ok := f.Value()
	require.True(t, ok)
	require.InDelta(t, 5.0, v, 0.5)
}

// TestFilter_Idempotence: Value is stable until the next Add.
func TestFilter_Idempotence(t *testing.T) {
	t.Parallel()

	f, err := ranging.New()
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		f.Add(4 + float64(i%3)*0.1)
	}

	v1, ok1 := f.Value()
	v2, ok2 := f.Value()
	require.True(t, ok1)
	require.True(t, ok2)
	require.Equal(t, v1, v2)

	// A single new sample sits outside every median window until more
	// arrive; push enough to shift the estimate and prove the cache
	// invalidated.
	for i := 0; i < 8; i++ {
		f.Add(9)
	}
	v3, ok3 := f.Value()
	require.True(t, ok3)
	require.NotEqual(t, v1, v3, "cache must invalidate on Add")
}

// TestFilter_BoundedFIFO: the raw window never exceeds its cap and old
// samples stop influencing the estimate.
func TestFilter_BoundedFIFO(t *testing.T) {
	t.Parallel()

	f, err := ranging.New(ranging.WithMaxSamples(15))
	require.NoError(t, err)

	for i := 0; i < 15; i++ {
		f.Add(100) // stale epoch
	}
	for i := 0; i < 15; i++ {
		f.Add(5) // current epoch displaces it entirely
	}
	require.Equal(t, 15, f.Len())

	v, ok := f.Value()
	require.True(t, ok)
	require.InDelta(t, 5.0, v, 1e-12)
}

// TestFilter_IQRMeanEstimator exercises the alternative collapse.
func TestFilter_IQRMeanEstimator(t *testing.T) {
	t.Parallel()

	f, err := ranging.New(ranging.WithEstimator(ranging.EstimatorIQRMean))
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		f.Add(5 + 0.1*float64(i%5))
	}

	v, ok := f.Value()
	require.True(t, ok)
	// The 0.15–0.45 interquantile slice sits below the median of the
	// ramp, so the estimate lands low of the plain mean but near 5.
	require.InDelta(t, 5.1, v, 0.2)
}
