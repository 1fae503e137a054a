package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/zy0930/wechat-poc2/internal/config"
)

func newCORSRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		FrontendURL:          "https://app.example.com",
		CORSAllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Authorization", "Content-Type"},
		CORSAllowCredentials: true,
	}
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantAllowed bool
	}{
		{name: "allowed origin", method: http.MethodGet, origin: "https://app.example.com", wantStatus: http.StatusOK, wantOrigin: "https://app.example.com", wantAllowed: true},
		{name: "allowed origin trailing slash", method: http.MethodGet, origin: "https://app.example.com/", wantStatus: http.StatusOK, wantOrigin: "https://app.example.com/", wantAllowed: true},
		{name: "foreign origin", method: http.MethodGet, origin: "https://evil.example.net", wantStatus: http.StatusOK, wantAllowed: false},
		{name: "no origin header", method: http.MethodGet, wantStatus: http.StatusOK, wantAllowed: false},
		{name: "preflight allowed", method: http.MethodOptions, origin: "https://app.example.com", wantStatus: http.StatusNoContent, wantOrigin: "https://app.example.com", wantAllowed: true},
		{name: "preflight foreign", method: http.MethodOptions, origin: "https://evil.example.net", wantStatus: http.StatusNoContent, wantAllowed: false},
	}

	router := newCORSRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ping", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			header := w.Header()
			if tt.wantAllowed {
				require.Equal(t, tt.wantOrigin, header.Get("Access-Control-Allow-Origin"))
				require.Equal(t, "GET, POST, OPTIONS", header.Get("Access-Control-Allow-Methods"))
				require.Equal(t, "Authorization, Content-Type", header.Get("Access-Control-Allow-Headers"))
				require.Equal(t, "true", header.Get("Access-Control-Allow-Credentials"))
			} else {
				require.Empty(t, header.Get("Access-Control-Allow-Origin"))
				require.Empty(t, header.Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}
