package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.PagesTotal.WithLabelValues("success").Inc()
	m.ListingsPersisted.Add(3)
	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/health", "200").Inc()

	n, err := testutil.GatherAndCount(reg,
		"ingest_pages_total",
		"ingest_listings_persisted_total",
		"http_requests_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ListingsPersisted))
}

func TestNew_TwoRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
