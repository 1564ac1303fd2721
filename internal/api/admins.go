package api

import (
	"context"
	"net/http"
	"net/url"

	"farmops/internal/model"
)

const (
	adminsPath = "/admins"
	loginPath  = "/auth/login"
)

// Admins exposes the admin roster endpoint.
type Admins struct {
	c *Client
}

func (c *Client) Admins() *Admins { return &Admins{c: c} }

// List calls GET /admins for one page of the roster. activeOnly adds
// status=active.
func (s *Admins) List(ctx context.Context, page, limit int, activeOnly bool) (*model.Page[model.Admin], error) {
	params := url.Values{}
	params.Set("page", itoa(page))
	params.Set("limit", itoa(limit))
	if activeOnly {
		params.Set("status", "active")
	}

	payload, err := s.c.do(ctx, http.MethodGet, adminsPath, params, nil)
	if err != nil {
		return nil, err
	}
	if err := requireKey(adminsPath, payload, "admins"); err != nil {
		return nil, err
	}

	var body struct {
		Admins []model.Admin `json:"admins"`
		pageMeta
	}
	if err := decode(adminsPath, payload, &body); err != nil {
		return nil, err
	}
	if body.Limit == 0 {
		body.Limit = limit
	}
	meta := body.pageMeta.normalize()
	return &model.Page[model.Admin]{
		Items:      nonNil(body.Admins),
		Total:      meta.Total,
		Page:       meta.Page,
		Limit:      meta.Limit,
		TotalPages: meta.TotalPages,
	}, nil
}

// LoginResult is the auth service's answer to a successful login.
type LoginResult struct {
	AccessToken string      `json:"accessToken"`
	Admin       model.Admin `json:"admin"`
}

// Login calls POST /auth/login. The client's own token is not sent.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	anon := c.WithToken("")
	payload, err := anon.do(ctx, http.MethodPost, loginPath, nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if err := decode(loginPath, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
