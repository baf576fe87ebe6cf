package layout

import (
	"errors"
	"log/slog"
	"time"
)

// Measurer is the text-measurement capability consumed by the engine: the
// rendered height in mm of a styled text run laid out at the given width.
// Implementations must be deterministic for identical inputs within a single
// pagination run. Paragraph boundaries inside text are blank lines.
type Measurer interface {
	MeasureHeight(text string, style TextStyle, width float64) (float64, error)
}

// ErrMetricsUnavailable reports that a measurement backend cannot serve at
// all (missing fonts, no host renderer). The engine recovers with the
// word-count estimator; callers never see this as a pagination failure.
var ErrMetricsUnavailable = errors.New("layout: text metrics unavailable")

// ErrMeasure reports a failed measurement call inside a pagination run. Like
// ErrMetricsUnavailable it is recovered internally via the estimator.
var ErrMeasure = errors.New("layout: measurement failed")

// Engine tunables. The overflow buffer keeps a descender's worth of slack so
// a line that measures exactly at the boundary does not clip; the source
// material disagreed on its value across revisions, so it is a parameter
// with a default rather than a constant.
const (
	DefaultOverflowBufferMM = 2.0
	DefaultFooterReserveMM  = 10.0
	DefaultMeasureTimeout   = 3 * time.Second
)

// EngineOptions configures a pagination engine.
type EngineOptions struct {
	// OverflowBufferMM is subtracted from the usable page height when
	// deciding whether the accumulated content overflows.
	OverflowBufferMM float64
	// FooterReserveMM keeps room for the running footer / folio line.
	FooterReserveMM float64
	// MeasureTimeout bounds the measurement loop; on expiry the estimator's
	// result is substituted. The timeout is advisory: an already-issued
	// measurement call is allowed to finish.
	MeasureTimeout time.Duration
	Logger         *slog.Logger
}

func (o EngineOptions) withDefaults() EngineOptions {
	if o.OverflowBufferMM <= 0 {
		o.OverflowBufferMM = DefaultOverflowBufferMM
	}
	if o.FooterReserveMM <= 0 {
		o.FooterReserveMM = DefaultFooterReserveMM
	}
	if o.MeasureTimeout <= 0 {
		o.MeasureTimeout = DefaultMeasureTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
