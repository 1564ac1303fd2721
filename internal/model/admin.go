package model

import "strings"

// Admin is a platform administrator, as listed by GET /admins.
type Admin struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	IsActive  bool   `json:"isActive"`
}

func (a Admin) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// SearchText is the lower-cased "first last email" string matched by the
// assignment search.
func (a Admin) SearchText() string {
	return strings.ToLower(a.FirstName + " " + a.LastName + " " + a.Email)
}

// Principal is the operator signed into the dashboard.
type Principal struct {
	AdminID string
	Name    string
	Email   string
	Role    string
	Token   string
}

// Page is one page of a paginated list response.
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// DateRange bounds KPI and list queries. Dates are YYYY-MM-DD; empty means open.
type DateRange struct {
	Start string
	End   string
}

// USSDSession is one USSD dial-in session.
type USSDSession struct {
	SessionID   string `json:"sessionId"`
	PhoneNumber string `json:"phoneNumber"`
	ServiceCode string `json:"serviceCode"`
	LastInput   string `json:"lastInput,omitempty"`
	Status      string `json:"status"`
	Steps       int    `json:"steps"`
	StartedAt   string `json:"startedAt"`
	EndedAt     string `json:"endedAt,omitempty"`
}

// USSDStatus is the state of a USSD session.
type USSDStatus string

const (
	USSDActive    USSDStatus = "active"
	USSDCompleted USSDStatus = "completed"
	USSDTimedOut  USSDStatus = "timed_out"
	USSDFailed    USSDStatus = "failed"
)

var USSDStatuses = []USSDStatus{USSDActive, USSDCompleted, USSDTimedOut, USSDFailed}

func (s USSDStatus) Valid() bool {
	for _, known := range USSDStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s USSDStatus) Label() string { return label(string(s)) }

// USSDStats aggregates USSD usage.
type USSDStats struct {
	TotalSessions      int     `json:"totalSessions"`
	ActiveSessions     int     `json:"activeSessions"`
	CompletedSessions  int     `json:"completedSessions"`
	UniqueUsers        int     `json:"uniqueUsers"`
	AvgDurationSeconds float64 `json:"avgDurationSeconds"`
}
