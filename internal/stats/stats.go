// internal/stats/stats.go

// Package stats exposes pipeline counters as prometheus metrics on a
// private registry, exportable as a text-format snapshot.
package stats

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Removal reason labels.
const (
	ReasonInvalid           = "invalid"
	ReasonDuplicateHeader   = "duplicate_header"
	ReasonDuplicateSequence = "duplicate_sequence"
	ReasonLength            = "length"
	ReasonSubsample         = "subsample"
)

// Recorder owns the metric set for one process. Each Recorder has its
// own registry, so repeated pipeline runs never collide on
// registration.
type Recorder struct {
	reg       *prometheus.Registry
	read      prometheus.Counter
	removed   *prometheus.CounterVec
	converted prometheus.Counter
	final     prometheus.Gauge
	shards    prometheus.Counter
}

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		read: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "protfa_records_read_total",
			Help: "Records parsed from the input stream.",
		}),
		removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "protfa_records_removed_total",
			Help: "Records dropped from the output, by reason.",
		}, []string{"reason"}),
		converted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "protfa_records_converted_total",
			Help: "Records whose sequence was rewritten by the correction table.",
		}),
		final: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "protfa_records_final",
			Help: "Records retained after the last stage.",
		}),
		shards: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "protfa_shards_written_total",
			Help: "Shard files written by the split tool.",
		}),
	}
	r.reg.MustRegister(r.read, r.removed, r.converted, r.final, r.shards)
	return r
}

func (r *Recorder) AddRead(n int)      { r.read.Add(float64(n)) }
func (r *Recorder) AddConverted(n int) { r.converted.Add(float64(n)) }
func (r *Recorder) AddShards(n int)    { r.shards.Add(float64(n)) }
func (r *Recorder) SetFinal(n int)     { r.final.Set(float64(n)) }

func (r *Recorder) AddRemoved(reason string, n int) {
	if n > 0 {
		r.removed.WithLabelValues(reason).Add(float64(n))
	}
}

// WriteText writes the registry contents in the prometheus text
// exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	mfs, err := r.reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
