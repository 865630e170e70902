package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestHandlerExposesDomainCounters(t *testing.T) {
	Register()
	before := testutil.ToFloat64(PartnerMatches.WithLabelValues(MatchMatched))
	PartnerMatches.WithLabelValues(MatchMatched).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(PartnerMatches.WithLabelValues(MatchMatched)))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "partner_matches_total")
}
