// Package auth signs operators and the service account into the platform API.
//
// This package provides:
//   - Operator login with email and password
//   - Service login with retry, used by the CLI and the digest runner
//   - Role normalisation for the signed-in principal
package auth

import (
	"context"
	"log"
	"strings"
	"time"

	"farmops/internal/api"
	"farmops/internal/errors"
	"farmops/internal/model"
)

// Login authenticates an operator against POST /auth/login.
//
// Error handling:
//   - Blank credentials fail locally without a request
//   - Any API or transport failure is wrapped in LoginFailedError
//   - A response without an access token is a LoginFailedError
//
// The returned principal's role is lower-cased and trimmed; authz maps
// unknown roles to its fallback role.
func Login(ctx context.Context, client *api.Client, email, password string) (*model.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.NewLoginFailedError("email and password are required", nil)
	}

	log.Printf("  → Signing in %s...", email)
	res, err := client.Login(ctx, email, password)
	if err != nil {
		log.Printf("  ✗ Login failed for %s: %v", email, err)
		if errors.IsSessionExpired(err) {
			return nil, errors.NewLoginFailedError("invalid email or password", nil)
		}
		return nil, errors.NewLoginFailedError("could not sign in", err)
	}
	if res.AccessToken == "" {
		return nil, errors.NewLoginFailedError("auth service returned no access token", nil)
	}

	name := res.Admin.FullName()
	if name == "" {
		name = email
	}
	log.Printf("  ✓ Signed in %s", email)
	return &model.Principal{
		AdminID: res.Admin.ID,
		Name:    name,
		Email:   email,
		Role:    NormalizeRole(res.Admin.Role),
		Token:   res.AccessToken,
	}, nil
}

// ServiceCredentials identify the non-interactive service account.
type ServiceCredentials struct {
	Token      string
	Email      string
	Password   string
	MaxRetries int
	RetryDelay time.Duration
}

// ServiceClient returns an API client authenticated as the service account.
//
// A configured static token is used as-is. Otherwise the email/password pair
// is used with up to MaxRetries attempts, RetryDelay apart.
func ServiceClient(ctx context.Context, base *api.Client, creds ServiceCredentials) (*api.Client, error) {
	if creds.Token != "" {
		return base.WithToken(creds.Token), nil
	}
	if creds.Email == "" {
		return nil, errors.NewLoginFailedError("set API_TOKEN or API_EMAIL/API_PASSWORD for the service account", nil)
	}

	attempts := creds.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		principal, err := Login(ctx, base, creds.Email, creds.Password)
		if err == nil {
			return base.WithToken(principal.Token), nil
		}
		lastErr = err
		log.Printf("⚠️  Service login attempt %d/%d failed: %v", i, attempts, err)

		if i < attempts {
			log.Printf("   ⏳ Retrying in %v...", creds.RetryDelay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(creds.RetryDelay):
			}
		}
	}
	return nil, lastErr
}

// NormalizeRole lower-cases a role name and turns spaces and dashes into
// underscores, so "Super Admin" and "super-admin" both read "super_admin".
func NormalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	role = strings.NewReplacer(" ", "_", "-", "_").Replace(role)
	return role
}
