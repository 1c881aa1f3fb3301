// Package metrics accounts for storage buffer allocations.
//
// Storage buffers are allocated only on construction, deep copies, gathered
// (List or Mask) selections and elementwise operations. Every allocation is
// counted here by reason, which lets callers and tests check that view-only
// operations never allocate element buffers.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Allocation reasons.
const (
	ReasonConstruct = "construct"
	ReasonDeepCopy  = "deepcopy"
	ReasonGather    = "gather"
	ReasonOp        = "op"
)

// Registry holds every collector of this package. It is separate from the
// default registry so embedding programs choose whether to expose it.
var Registry = prometheus.NewRegistry()

var (
	storageAllocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ucon",
		Name:      "storage_allocations_total",
		Help:      "Storage buffers allocated, by reason",
	}, []string{"reason"})

	storageElements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ucon",
		Name:      "storage_elements_allocated_total",
		Help:      "Elements allocated in storage buffers, by reason",
	}, []string{"reason"})
)

func init() {
	Registry.MustRegister(storageAllocations, storageElements)
}

// RecordAllocation counts one buffer of n elements allocated for reason.
func RecordAllocation(reason string, n int) {
	storageAllocations.WithLabelValues(reason).Inc()
	storageElements.WithLabelValues(reason).Add(float64(n))
}

// Snapshot reports the current counters keyed by reason.
type Snapshot struct {
	Allocations map[string]float64
	Elements    map[string]float64
}

// Collect gathers the current counter values.
func Collect() (Snapshot, error) {
	snap := Snapshot{
		Allocations: make(map[string]float64),
		Elements:    make(map[string]float64),
	}
	families, err := Registry.Gather()
	if err != nil {
		return snap, err
	}
	for _, mf := range families {
		var target map[string]float64
		switch mf.GetName() {
		case "ucon_storage_allocations_total":
			target = snap.Allocations
		case "ucon_storage_elements_allocated_total":
			target = snap.Elements
		default:
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "reason" {
					target[lp.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}
	return snap, nil
}

// Allocations returns the number of buffers allocated for reason so far.
func Allocations(reason string) float64 {
	snap, err := Collect()
	if err != nil {
		return 0
	}
	return snap.Allocations[reason]
}

// WriteText writes every collector in the Prometheus text exposition format.
func WriteText(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
