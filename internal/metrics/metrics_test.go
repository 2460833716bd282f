package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSubmission(t *testing.T) {
	before := testutil.ToFloat64(FormSubmissions.WithLabelValues("contact", "ok"))
	RecordSubmission("contact", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(FormSubmissions.WithLabelValues("contact", "ok")))
}

func TestRecordSearch(t *testing.T) {
	before := testutil.ToFloat64(SearchQueries.WithLabelValues("quick"))
	RecordSearch("quick", 3)
	assert.Equal(t, before+1, testutil.ToFloat64(SearchQueries.WithLabelValues("quick")))
}

func TestObserveExternal(t *testing.T) {
	ObserveExternal("crm", time.Now(), errors.New("boom"))
	ObserveExternal("crm", time.Now(), nil)
	assert.Equal(t, 2, testutil.CollectAndCount(ExternalCallDuration, "website_external_call_duration_seconds"))
}
