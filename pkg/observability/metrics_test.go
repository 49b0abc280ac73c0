package observability_test

import (
	"testing"

	"github.com/aretw0/calform/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	m.StoreWrite(observability.OutcomeOK)
	m.StoreWrite(observability.OutcomeOK)
	m.StoreWrite(observability.OutcomeError)
	m.Validation(observability.ValidationFull)
	m.GroupSettled("segments")
	m.ExportStarted()
	m.ExportBytes(128)
	m.ExportBytes(0)
	m.ExportEnded(observability.OutcomeClosed)

	count, err := testutil.GatherAndCount(reg, "calform_store_writes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per outcome")

	problems, err := testutil.GatherAndLint(reg)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.StoreWrite(observability.OutcomeOK)
		m.StoreRead(observability.OutcomeMiss)
		m.Validation(observability.ValidationPartial)
		m.GroupSettled("g")
		m.ExportStarted()
		m.ExportBytes(10)
		m.ExportEnded(observability.OutcomeFailed)
	})
}
