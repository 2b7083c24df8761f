// Package sms delivers text messages through an HTTP gateway.
package sms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/config"
)

// ErrUnknownGateway is returned by New for an unsupported gateway kind.
var ErrUnknownGateway = errors.New("unknown sms gateway")

// Gateway sends a text message to a phone number.
type Gateway interface {
	Send(ctx context.Context, to, message string) error
}

// New builds the gateway selected in the config.
func New(cfg config.SMS) (Gateway, error) {
	switch cfg.Gateway {
	case config.SMSGatewayHTTP:
		return NewHTTPGateway(cfg), nil
	case config.SMSGatewayLog, "":
		return LogGateway{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownGateway, cfg.Gateway)
	}
}

// message is the JSON body posted to the gateway.
type message struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// HTTPGateway posts messages as JSON to a provider endpoint.
type HTTPGateway struct {
	url     string
	apiKey  string
	sender  string
	timeout time.Duration
}

// NewHTTPGateway creates an HTTPGateway.
func NewHTTPGateway(cfg config.SMS) *HTTPGateway {
	return &HTTPGateway{
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		sender:  cfg.Sender,
		timeout: time.Duration(cfg.Timeout) * time.Second,
	}
}

// Send posts the message. Transport errors and non 2xx answers are
// reported as apperror.KindDeliveryFailed.
func (g *HTTPGateway) Send(ctx context.Context, to, text string) error {
	if err := ctx.Err(); err != nil {
		return apperror.Wrap(apperror.KindDeliveryFailed, err, "sms not sent")
	}

	timeout := g.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout == 0 || left < timeout {
			timeout = left
		}
	}

	agent := fiber.Post(g.url).JSON(message{From: g.sender, To: to, Text: text})
	if g.apiKey != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+g.apiKey)
	}

	if timeout > 0 {
		agent.Timeout(timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return apperror.Wrap(apperror.KindDeliveryFailed, errors.Join(errs...), "sms gateway unreachable")
	}

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		log.Warn().Int("status", code).Bytes("body", body).Str("to", mask(to)).Msg("sms gateway rejected message")

		return apperror.New(apperror.KindDeliveryFailed, "sms gateway answered %d", code)
	}

	return nil
}

// LogGateway writes messages to the log instead of sending them.
// Used in development.
type LogGateway struct{}

// Send implements Gateway.
func (LogGateway) Send(_ context.Context, to, text string) error {
	log.Info().Str("to", mask(to)).Str("text", text).Msg("sms")
	return nil
}

// mask hides all but the last four digits of a phone number.
func mask(phone string) string {
	const visible = 4
	if len(phone) <= visible {
		return phone
	}

	out := []byte(phone)
	for i := 0; i < len(out)-visible; i++ {
		if out[i] >= '0' && out[i] <= '9' {
			out[i] = '*'
		}
	}

	return string(out)
}
