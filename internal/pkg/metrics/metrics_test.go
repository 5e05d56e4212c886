package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/payments/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", gin.WrapH(Handler()))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/payments/:id", "204"))
	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payments/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/payments/:id", "204")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")), 1.0)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "payments_http_requests_total")
}

func TestDomainCounters(t *testing.T) {
	created := testutil.ToFloat64(ledgerWrites.WithLabelValues("created", "paid"))
	updated := testutil.ToFloat64(ledgerWrites.WithLabelValues("updated", "partial"))
	deletes := testutil.ToFloat64(ledgerDeletes)
	hits := testutil.ToFloat64(revenueCache.WithLabelValues("hit"))

	PaymentRecorded(true, "paid")
	PaymentRecorded(false, "partial")
	PaymentDeleted()
	RevenueCacheLookup(true)
	RevenueCacheLookup(false)

	assert.Equal(t, created+1, testutil.ToFloat64(ledgerWrites.WithLabelValues("created", "paid")))
	assert.Equal(t, updated+1, testutil.ToFloat64(ledgerWrites.WithLabelValues("updated", "partial")))
	assert.Equal(t, deletes+1, testutil.ToFloat64(ledgerDeletes))
	assert.Equal(t, hits+1, testutil.ToFloat64(revenueCache.WithLabelValues("hit")))
}
