package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/theatre-booking/internal/config"
)

func rateKeyContext(t *testing.T, userID interface{}) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/bookings")
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c
}

// The JWT middleware stores the numeric sub claim, which jwt.MapClaims
// decodes as float64. The key builder must resolve it to the user's id, or
// per-user limiting silently degrades to one shared "anon" bucket.
func TestBuildRateKeyResolvesNumericUserID(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}

	cases := []struct {
		name string
		id   interface{}
		want string
	}{
		{"float64 claim", float64(7), "rl:user:7"},
		{"uint64", uint64(42), "rl:user:42"},
		{"int64", int64(9), "rl:user:9"},
		{"int", 3, "rl:user:3"},
		{"string", "12", "rl:user:12"},
		{"missing", nil, "rl:user:anon"},
		{"empty string", "", "rl:user:anon"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := rateKeyContext(t, tc.id)
			assert.Equal(t, tc.want, buildRateKey(cfg, c))
		})
	}
}

func TestBuildRateKeyStrategies(t *testing.T) {
	c := rateKeyContext(t, float64(7))

	key := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}, c)
	assert.Equal(t, "rl:user:7:route:POST /v1/bookings", key)

	key = buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "route"}, c)
	assert.Equal(t, "rl:route:POST /v1/bookings", key)
}
