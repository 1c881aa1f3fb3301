package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAllocation(t *testing.T) {
	beforeCount := testutil.ToFloat64(storageAllocations.WithLabelValues(ReasonGather))
	beforeElems := testutil.ToFloat64(storageElements.WithLabelValues(ReasonGather))

	RecordAllocation(ReasonGather, 7)
	RecordAllocation(ReasonGather, 3)

	assert.Equal(t, beforeCount+2, testutil.ToFloat64(storageAllocations.WithLabelValues(ReasonGather)))
	assert.Equal(t, beforeElems+10, testutil.ToFloat64(storageElements.WithLabelValues(ReasonGather)))
}

func TestCollect(t *testing.T) {
	before := Allocations(ReasonDeepCopy)
	RecordAllocation(ReasonDeepCopy, 4)

	snap, err := Collect()
	require.NoError(t, err)
	assert.Equal(t, before+1, snap.Allocations[ReasonDeepCopy])
	assert.GreaterOrEqual(t, snap.Elements[ReasonDeepCopy], 4.0)
	assert.Equal(t, before+1, Allocations(ReasonDeepCopy))
}

func TestRegistryExposition(t *testing.T) {
	RecordAllocation(ReasonOp, 1)
	n, err := testutil.GatherAndCount(Registry, "ucon_storage_allocations_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
}

func TestWriteText(t *testing.T) {
	RecordAllocation(ReasonConstruct, 2)
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf))
	assert.Contains(t, buf.String(), "# TYPE ucon_storage_allocations_total counter")
	assert.Contains(t, buf.String(), `reason="construct"`)
}
