package iamport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway mimics the Iamport API: token endpoint plus whatever handler
// the test installs for everything else.
type fakeGateway struct {
	t          *testing.T
	tokenCalls atomic.Int32
	handler    http.HandlerFunc
}

func (f *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/users/getToken" {
		f.tokenCalls.Add(1)

		var creds map[string]string
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["imp_key"] != "test-key" || creds["imp_secret"] != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		writeEnvelope(w, 0, "", map[string]string{"access_token": "tok_abc"})
		return
	}
	f.handler(w, r)
}

func writeEnvelope(w http.ResponseWriter, code int, message string, response any) {
	raw, _ := json.Marshal(response)
	json.NewEncoder(w).Encode(map[string]any{
		"code":     code,
		"message":  message,
		"response": json.RawMessage(raw),
	})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (Client, *fakeGateway) {
	fake := &fakeGateway{t: t, handler: handler}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL: srv.URL,
		Key:     "test-key",
		Secret:  "test-secret",
		Timeout: 2 * time.Second,
	}), fake
}

func TestGetPayment_Success(t *testing.T) {
	t.Parallel()

	c, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/imp_123", r.URL.Path)
		assert.Equal(t, "Bearer tok_abc", r.Header.Get("Authorization"))

		writeEnvelope(w, 0, "", map[string]any{
			"imp_uid":      "imp_123",
			"merchant_uid": "order_123",
			"status":       "paid",
			"amount":       4000,
			"pay_method":   "card",
			"paid_at":      1735689600,
		})
	})

	att, err := c.GetPayment(context.Background(), "imp_123")
	require.NoError(t, err)
	assert.Equal(t, "imp_123", att.ImpUID)
	assert.Equal(t, "order_123", att.MerchantUID)
	assert.Equal(t, "paid", att.Status)
	assert.Equal(t, int64(4000), att.Amount)
	require.NotNil(t, att.PaidAtTime())
	assert.Equal(t, int32(1), fake.tokenCalls.Load())
}

// The bearer token is fetched once and reused for subsequent calls.
func TestClient_TokenCached(t *testing.T) {
	t.Parallel()

	c, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, "", map[string]any{"imp_uid": "imp_1", "status": "paid"})
	})

	_, err := c.GetPayment(context.Background(), "imp_1")
	require.NoError(t, err)
	_, err = c.GetPayment(context.Background(), "imp_1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), fake.tokenCalls.Load())
}

// Iamport signals application errors with HTTP 200 and a non-zero code.
func TestGetPayment_EnvelopeError(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, -1, "존재하지 않는 결제정보입니다.", nil)
	})

	_, err := c.GetPayment(context.Background(), "imp_missing")

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, KindUpstream, gwErr.Kind)
}

func TestGetPayment_UpstreamHTTPError(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetPayment(context.Background(), "imp_123")

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, KindUpstream, gwErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, gwErr.StatusCode)
}

func TestGetPayment_Timeout(t *testing.T) {
	t.Parallel()

	fake := &fakeGateway{t: t}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		writeEnvelope(w, 0, "", nil)
	}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL: srv.URL,
		Key:     "test-key",
		Secret:  "test-secret",
		Timeout: 50 * time.Millisecond,
	})

	_, err := c.GetPayment(context.Background(), "imp_123")

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, KindTimeout, gwErr.Kind)
}

func TestGetPayment_Unavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(Config{
		BaseURL: srv.URL,
		Key:     "test-key",
		Secret:  "test-secret",
		Timeout: time.Second,
	})

	_, err := c.GetPayment(context.Background(), "imp_123")

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, KindUnavailable, gwErr.Kind)
}

// Bad credentials surface as an auth-kind error, not a generic upstream one.
func TestGetToken_BadCredentials(t *testing.T) {
	t.Parallel()

	fake := &fakeGateway{t: t, handler: func(w http.ResponseWriter, r *http.Request) {}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL: srv.URL,
		Key:     "wrong",
		Secret:  "wrong",
		Timeout: time.Second,
	})

	_, err := c.GetPayment(context.Background(), "imp_123")

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, KindAuth, gwErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, gwErr.StatusCode)
}

func TestCancelPayment_OmitsEmptyMerchantUID(t *testing.T) {
	t.Parallel()

	var gotPayload map[string]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/cancel", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		writeEnvelope(w, 0, "", nil)
	})

	require.NoError(t, c.CancelPayment(context.Background(), "imp_123", ""))
	assert.Equal(t, "imp_123", gotPayload["imp_uid"])
	_, hasMerchant := gotPayload["merchant_uid"]
	assert.False(t, hasMerchant)

	require.NoError(t, c.CancelPayment(context.Background(), "imp_123", "order_123"))
	assert.Equal(t, "order_123", gotPayload["merchant_uid"])
}

func TestUnscheduleRecurring(t *testing.T) {
	t.Parallel()

	var gotPayload map[string]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscribe/payments/unschedule", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		writeEnvelope(w, 0, "", nil)
	})

	require.NoError(t, c.UnscheduleRecurring(context.Background(), "cust_123"))
	assert.Equal(t, "cust_123", gotPayload["customer_uid"])
}
