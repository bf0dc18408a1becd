package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/metrics"
)

type empty struct{}

// captureUser is a terminal UnaryFunc that records the caller seen by the handler.
func captureUser(seen *string) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		*seen = GetUserID(ctx)
		return connect.NewResponse(&empty{}), nil
	}
}

func requestWithAuth(header string) *connect.Request[empty] {
	req := connect.NewRequest(&empty{})
	if header != "" {
		req.Header().Set("Authorization", header)
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour, "")
	token, err := jwtManager.Generate("alice", "alice@example.com")
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantUser string
		wantCode connect.Code
	}{
		{name: "valid token", header: "Bearer " + token, wantUser: "alice"},
		{name: "missing header", header: "", wantCode: connect.CodeUnauthenticated},
		{name: "not bearer", header: "Basic abc", wantCode: connect.CodeUnauthenticated},
		{name: "bad token", header: "Bearer nope", wantCode: connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequireAuth(jwtManager)(captureUser(&seen))

			_, err := handler(context.Background(), requestWithAuth(tt.header))
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, connect.CodeOf(err))
				assert.Empty(t, seen)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, seen)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour, "")
	token, err := jwtManager.Generate("bob", "")
	require.NoError(t, err)

	var seen string
	handler := OptionalAuth(jwtManager)(captureUser(&seen))

	_, err = handler(context.Background(), requestWithAuth("Bearer "+token))
	require.NoError(t, err)
	assert.Equal(t, "bob", seen)

	_, err = handler(context.Background(), requestWithAuth("Bearer garbage"))
	require.NoError(t, err)
	assert.Empty(t, seen)

	_, err = handler(context.Background(), requestWithAuth(""))
	require.NoError(t, err)
	assert.Empty(t, seen)
}

func TestWithUserID(t *testing.T) {
	ctx := WithUserID(context.Background(), "carol")
	assert.Equal(t, "carol", GetUserID(ctx))
	assert.Empty(t, GetEmail(ctx))
}

func TestLoggingAndMetricsInterceptors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, reg)

	failing := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
	}
	handler := LoggingInterceptor()(MetricsInterceptor(m)(failing))

	_, err := handler(context.Background(), requestWithAuth(""))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	count, err := testutil.GatherAndCount(reg, "settleup_rpc_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRequestLogger(t *testing.T) {
	handler := chimw.RequestID(RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
