// Package ranging converts a stream of noisy scalar range samples into a
// single stable distance estimate.
//
// A Filter keeps a bounded FIFO of raw samples. On demand it slides a
// median window over the raw sequence to suppress isolated outliers
// (typical of ToF/phase-based range estimators), then averages the
// filtered sequence to reduce residual Gaussian-like noise. The estimate
// is cached and recomputed lazily after new samples arrive.
//
// Until the minimum sample count is reached, Value reports no estimate;
// there is no error state, only "not enough data yet".
package ranging
