package ratelimit

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		method string
		want   Class
	}{
		{"login endpoint", "/api/auth/login", http.MethodPost, ClassLogin},
		{"login endpoint via GET", "/api/auth/login", http.MethodGet, ClassLogin},
		{"account transfer", "/api/accounts/1/transfer", http.MethodPost, ClassTransfer},
		{"transfer suffix outside api", "/internal/transfer", http.MethodPost, ClassTransfer},
		{"transfer path via GET is general", "/api/accounts/1/transfer", http.MethodGet, ClassGeneral},
		{"user listing", "/api/users", http.MethodGet, ClassGeneral},
		{"account balance", "/api/accounts/1/balance", http.MethodGet, ClassGeneral},
		{"health probe", "/health", http.MethodGet, ClassNone},
		{"metrics", "/metrics", http.MethodGet, ClassNone},
		{"root", "/", http.MethodGet, ClassNone},
		{"api without trailing segment", "/api", http.MethodGet, ClassNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path, tt.method))
		})
	}
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "login", ClassLogin.String())
	assert.Equal(t, "transfer", ClassTransfer.String())
	assert.Equal(t, "general", ClassGeneral.String())
	assert.Equal(t, "none", ClassNone.String())
}

func TestDefaultPolicies(t *testing.T) {
	policies := DefaultPolicies()

	assert.Equal(t, Policy{Limit: 5, Window: time.Minute}, policies.Login)
	assert.Equal(t, Policy{Limit: 10, Window: time.Minute}, policies.Transfer)
	assert.Equal(t, Policy{Limit: 30, Window: time.Minute}, policies.General)
}

func TestPoliciesPolicy(t *testing.T) {
	policies := DefaultPolicies()

	login, ok := policies.policy(ClassLogin)
	assert.True(t, ok)
	assert.Equal(t, 5, login.Limit)

	_, ok = policies.policy(ClassNone)
	assert.False(t, ok)
}
