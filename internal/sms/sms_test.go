package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/config"
)

func TestNew(t *testing.T) {
	g, err := New(config.SMS{Gateway: config.SMSGatewayLog})
	require.NoError(t, err)
	assert.IsType(t, LogGateway{}, g)

	g, err = New(config.SMS{Gateway: config.SMSGatewayHTTP, URL: "http://localhost"})
	require.NoError(t, err)
	assert.IsType(t, &HTTPGateway{}, g)

	_, err = New(config.SMS{Gateway: "pigeon"})
	assert.ErrorIs(t, err, ErrUnknownGateway)
}

func TestHTTPGatewaySend(t *testing.T) {
	var got message

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)

	g := NewHTTPGateway(config.SMS{URL: srv.URL, APIKey: "key-1", Sender: "TOURMKT", Timeout: 5})

	require.NoError(t, g.Send(context.Background(), "+15550001234", "Your OTP is 482913"))
	assert.Equal(t, message{From: "TOURMKT", To: "+15550001234", Text: "Your OTP is 482913"}, got)
}

func TestHTTPGatewayRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	err := NewHTTPGateway(config.SMS{URL: srv.URL, Timeout: 5}).Send(context.Background(), "+15550001234", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrDeliveryFailed)
}

func TestHTTPGatewayUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewHTTPGateway(config.SMS{URL: url, Timeout: 1}).Send(context.Background(), "+15550001234", "x")
	assert.ErrorIs(t, err, apperror.ErrDeliveryFailed)
}

func TestHTTPGatewayCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewHTTPGateway(config.SMS{URL: "http://127.0.0.1:1"}).Send(ctx, "+1", "x")
	assert.ErrorIs(t, err, apperror.ErrDeliveryFailed)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "+*******1234", mask("+15550001234"))
	assert.Equal(t, "123", mask("123"))
}

func TestLogGateway(t *testing.T) {
	assert.NoError(t, LogGateway{}.Send(context.Background(), "+15550001234", "hi"))
}
