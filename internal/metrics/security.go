package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Authentication outcome labels.
const (
	AuthOutcomeSuccess   = "success"
	AuthOutcomeInvalid   = "invalid_token"
	AuthOutcomeAnonymous = "anonymous"
	AuthOutcomeMalformed = "malformed_header"
)

// SecurityMetrics records authentication outcomes, login attempts, and rate
// limit decisions so abusive traffic patterns show up in dashboards.
type SecurityMetrics interface {
	// RecordAuthentication records the outcome of bearer token resolution.
	RecordAuthentication(ctx context.Context, outcome string)

	// RecordLogin records a credential login attempt with status "success" or "failure".
	RecordLogin(ctx context.Context, status string)

	// RecordRateLimitDecision records an allow/reject decision for a policy class.
	RecordRateLimitDecision(ctx context.Context, class string, allowed bool)
}

// securityMetrics implements SecurityMetrics using OpenTelemetry instruments.
type securityMetrics struct {
	authCounter      metric.Int64Counter
	loginCounter     metric.Int64Counter
	rateLimitCounter metric.Int64Counter
}

// NewSecurityMetrics creates a SecurityMetrics implementation on the given meter provider.
func NewSecurityMetrics(meterProvider metric.MeterProvider, namespace string) (SecurityMetrics, error) {
	meter := meterProvider.Meter(namespace)

	authCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_authentication_total", namespace),
		metric.WithDescription("Total number of bearer token resolutions by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create authentication counter: %w", err)
	}

	loginCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_login_attempts_total", namespace),
		metric.WithDescription("Total number of credential login attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create login counter: %w", err)
	}

	rateLimitCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_rate_limit_decisions_total", namespace),
		metric.WithDescription("Total number of rate limit decisions by class"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit counter: %w", err)
	}

	return &securityMetrics{
		authCounter:      authCounter,
		loginCounter:     loginCounter,
		rateLimitCounter: rateLimitCounter,
	}, nil
}

func (s *securityMetrics) RecordAuthentication(ctx context.Context, outcome string) {
	s.authCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("outcome", outcome),
		),
	)
}

func (s *securityMetrics) RecordLogin(ctx context.Context, status string) {
	s.loginCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("status", status),
		),
	)
}

func (s *securityMetrics) RecordRateLimitDecision(ctx context.Context, class string, allowed bool) {
	s.rateLimitCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("class", class),
			attribute.Bool("allowed", allowed),
		),
	)
}

// NoOpSecurityMetrics is used when metrics are disabled.
type NoOpSecurityMetrics struct{}

// NewNoOpSecurityMetrics creates a no-op SecurityMetrics implementation.
func NewNoOpSecurityMetrics() SecurityMetrics {
	return &NoOpSecurityMetrics{}
}

// RecordAuthentication does nothing when metrics are disabled.
func (n *NoOpSecurityMetrics) RecordAuthentication(ctx context.Context, outcome string) {
	// No-op
}

// RecordLogin does nothing when metrics are disabled.
func (n *NoOpSecurityMetrics) RecordLogin(ctx context.Context, status string) {
	// No-op
}

// RecordRateLimitDecision does nothing when metrics are disabled.
func (n *NoOpSecurityMetrics) RecordRateLimitDecision(ctx context.Context, class string, allowed bool) {
	// No-op
}
