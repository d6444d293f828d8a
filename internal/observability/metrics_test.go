package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordNormalization(t *testing.T) {
	keptBefore := testutil.ToFloat64(RecordsNormalized)
	inactiveBefore := testutil.ToFloat64(RecordsDropped.WithLabelValues("inactive"))

	RecordNormalization(3, map[string]int{"inactive": 2, "missing_url": 1})

	assert.Equal(t, keptBefore+3, testutil.ToFloat64(RecordsNormalized))
	assert.Equal(t, inactiveBefore+2, testutil.ToFloat64(RecordsDropped.WithLabelValues("inactive")))
}

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}
