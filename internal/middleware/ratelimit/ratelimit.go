// Package ratelimit provides per-IP rate limiting middleware for the email
// endpoints, so a misbehaving caller cannot flood the SMTP relay.
package ratelimit

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ireserve/email-api/internal/pkg/log"
)

// EndpointType represents the email endpoints that carry rate limits
type EndpointType int

const (
	EndpointSend EndpointType = iota
	EndpointBroadcast
)

// EndpointLimits defines rate limiting configuration per endpoint
type EndpointLimits struct {
	// Individual sends: 30 per 15 minutes per IP
	SendMaxRequests    int
	SendWindowDuration time.Duration

	// Broadcasts: 5 per hour per IP; each one fans out to a whole category
	BroadcastMaxRequests    int
	BroadcastWindowDuration time.Duration
}

// DefaultEndpointLimits returns the default rate limits
func DefaultEndpointLimits() EndpointLimits {
	return EndpointLimits{
		SendMaxRequests:    30,
		SendWindowDuration: 15 * time.Minute,

		BroadcastMaxRequests:    5,
		BroadcastWindowDuration: 1 * time.Hour,
	}
}

// Config holds the configuration for rate limiting middleware
type Config struct {
	// Endpoint type to determine which limits to apply
	EndpointType EndpointType

	// Custom limits (optional - uses defaults if not provided)
	Limits *EndpointLimits

	// Next defines a function to skip this middleware when returned true
	Next func(c *fiber.Ctx) bool
}

// New creates rate limiting middleware for the given endpoint
func New(config Config) fiber.Handler {
	if config.Limits == nil {
		limits := DefaultEndpointLimits()
		config.Limits = &limits
	}

	max, window, name := endpointSettings(config.EndpointType, config.Limits)

	return limiter.New(limiter.Config{
		Next:       config.Next,
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + ":" + c.Path()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Warn("[RateLimit] Rate limit exceeded for %s from IP: %s", name, c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":      "Rate limit exceeded",
				"code":       "RATE_LIMIT_EXCEEDED",
				"message":    fmt.Sprintf("Too many %s requests. Please try again later.", name),
				"retryAfter": int(window.Seconds()),
			})
		},
	})
}

func endpointSettings(endpointType EndpointType, limits *EndpointLimits) (int, time.Duration, string) {
	switch endpointType {
	case EndpointBroadcast:
		return limits.BroadcastMaxRequests, limits.BroadcastWindowDuration, "broadcast"
	default:
		return limits.SendMaxRequests, limits.SendWindowDuration, "send"
	}
}
