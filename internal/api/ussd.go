package api

import (
	"context"
	"log"
	"net/http"

	apperrors "farmops/internal/errors"
	"farmops/internal/model"
)

// USSD exposes the USSD analytics endpoints. Each resource has exactly one
// configured path; a 404 means the deployment does not serve it and is
// reported as an empty result.
type USSD struct {
	c            *Client
	sessionsPath string
	statsPath    string
}

// USSD returns the USSD endpoints at the configured paths.
func (c *Client) USSD(sessionsPath, statsPath string) *USSD {
	return &USSD{c: c, sessionsPath: sessionsPath, statsPath: statsPath}
}

// Sessions lists USSD sessions for the query's page and date range.
func (s *USSD) Sessions(ctx context.Context, q model.ListQuery) (*model.Page[model.USSDSession], error) {
	payload, err := s.c.do(ctx, http.MethodGet, s.sessionsPath, listParams(q), nil)
	if apperrors.IsNotFound(err) {
		log.Printf("  ⚠️  USSD sessions endpoint %s not found, showing no sessions", s.sessionsPath)
		return &model.Page[model.USSDSession]{Items: []model.USSDSession{}, Page: 1, Limit: q.Limit, TotalPages: 1}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := requireKey(s.sessionsPath, payload, "sessions"); err != nil {
		return nil, err
	}

	var body struct {
		Sessions []model.USSDSession `json:"sessions"`
		pageMeta
	}
	if err := decode(s.sessionsPath, payload, &body); err != nil {
		return nil, err
	}
	meta := body.pageMeta.normalize()
	return &model.Page[model.USSDSession]{
		Items:      nonNil(body.Sessions),
		Total:      meta.Total,
		Page:       meta.Page,
		Limit:      meta.Limit,
		TotalPages: meta.TotalPages,
	}, nil
}

// Stats returns USSD aggregates. A 404 yields zeroed stats.
func (s *USSD) Stats(ctx context.Context, r model.DateRange) (*model.USSDStats, error) {
	payload, err := s.c.do(ctx, http.MethodGet, s.statsPath, rangeParams(r), nil)
	if apperrors.IsNotFound(err) {
		log.Printf("  ⚠️  USSD stats endpoint %s not found, showing empty stats", s.statsPath)
		return &model.USSDStats{}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := requireKey(s.statsPath, payload, "totalSessions"); err != nil {
		return nil, err
	}
	var stats model.USSDStats
	if err := decode(s.statsPath, payload, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
