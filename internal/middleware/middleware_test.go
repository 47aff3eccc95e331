package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name           string
		configured     string
		token          string
		expectedStatus int
	}{
		{name: "Valid token", configured: "s3cret", token: "s3cret", expectedStatus: http.StatusOK},
		{name: "Missing token", configured: "s3cret", expectedStatus: http.StatusUnauthorized},
		{name: "Wrong token", configured: "s3cret", token: "s3cre", expectedStatus: http.StatusForbidden},
		{name: "Not configured", configured: "", token: "s3cret", expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var isAdmin bool
			r := gin.New()
			r.GET("/admin", NewAuthorization(tt.configured).AdminOnly(), func(c *gin.Context) {
				isAdmin = c.GetBool("is_admin")
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.token != "" {
				req.Header.Set(AdminTokenHeader, tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, isAdmin)
		})
	}
}

func TestMonitor(t *testing.T) {
	r := gin.New()
	r.Use(Monitor())
	r.GET("/bosses/:boss_id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/bosses/:boss_id", http.MethodGet, "200"))
	unmatched := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("unmatched", http.MethodGet, "404"))

	for _, path := range []string{"/bosses/1", "/bosses/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/bosses/:boss_id", http.MethodGet, "200")))
	assert.Equal(t, unmatched+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("unmatched", http.MethodGet, "404")))
}
