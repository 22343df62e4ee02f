// Package ratelimit implements per-client request throttling with token buckets.
// Each endpoint class carries its own budget; buckets refill continuously and
// are keyed by (policy class, client key).
package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// Class identifies the rate-limit profile an endpoint belongs to.
type Class int

const (
	// ClassNone applies no rate limiting (non-API paths).
	ClassNone Class = iota

	// ClassLogin throttles credential-guessing on the login endpoint.
	ClassLogin

	// ClassTransfer throttles financial transfer operations.
	ClassTransfer

	// ClassGeneral throttles all other API endpoints.
	ClassGeneral
)

// String returns the class name used in bucket keys, headers, and logs.
func (c Class) String() string {
	switch c {
	case ClassLogin:
		return "login"
	case ClassTransfer:
		return "transfer"
	case ClassGeneral:
		return "general"
	default:
		return "none"
	}
}

// Policy holds the budget for a single class: Limit tokens refilling over Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Policies maps each throttled class to its budget.
type Policies struct {
	Login    Policy
	Transfer Policy
	General  Policy
}

// DefaultPolicies returns the standard per-minute budgets.
func DefaultPolicies() Policies {
	return Policies{
		Login:    Policy{Limit: 5, Window: time.Minute},
		Transfer: Policy{Limit: 10, Window: time.Minute},
		General:  Policy{Limit: 30, Window: time.Minute},
	}
}

// policy returns the budget for a class. ClassNone has no budget.
func (p Policies) policy(class Class) (Policy, bool) {
	switch class {
	case ClassLogin:
		return p.Login, true
	case ClassTransfer:
		return p.Transfer, true
	case ClassGeneral:
		return p.General, true
	default:
		return Policy{}, false
	}
}

// loginPath is the only endpoint throttled as ClassLogin.
const loginPath = "/api/auth/login"

// apiPrefix scopes general throttling to API endpoints.
const apiPrefix = "/api/"

// Classify maps a request to its rate-limit class. Priority order: the login
// endpoint, POST to a transfer sub-resource, any API path, everything else.
func Classify(path, method string) Class {
	switch {
	case path == loginPath:
		return ClassLogin
	case method == http.MethodPost && strings.HasSuffix(path, "/transfer"):
		return ClassTransfer
	case strings.HasPrefix(path, apiPrefix):
		return ClassGeneral
	default:
		return ClassNone
	}
}
