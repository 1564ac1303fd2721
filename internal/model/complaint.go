// Package model holds the platform entities the dashboard reads and writes.
//
// Values are snapshots decoded from API responses. Timestamps stay as the
// ISO-8601 strings the API sends; the format package renders them.
package model

import "strings"

// ComplainantType identifies who raised a complaint.
type ComplainantType string

const (
	ComplainantFarmer        ComplainantType = "farmer"
	ComplainantStudentFarmer ComplainantType = "student_farmer"
	ComplainantStaff         ComplainantType = "staff"
	ComplainantAdmin         ComplainantType = "admin"
	ComplainantOther         ComplainantType = "other"
)

// ComplainantTypes lists every complainant type in display order.
var ComplainantTypes = []ComplainantType{
	ComplainantFarmer, ComplainantStudentFarmer, ComplainantStaff, ComplainantAdmin, ComplainantOther,
}

// Valid reports whether t is a known complainant type.
func (t ComplainantType) Valid() bool {
	for _, known := range ComplainantTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t ComplainantType) Label() string { return label(string(t)) }

// ComplaintStatus is the lifecycle state of a complaint.
type ComplaintStatus string

const (
	StatusOpen       ComplaintStatus = "open"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusClosed     ComplaintStatus = "closed"
)

var ComplaintStatuses = []ComplaintStatus{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

func (s ComplaintStatus) Valid() bool {
	for _, known := range ComplaintStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s ComplaintStatus) Label() string { return label(string(s)) }

// Priority of a complaint.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

func (p Priority) Label() string { return label(string(p)) }

// Complainant is the person who raised a complaint.
type Complainant struct {
	Type  ComplainantType `json:"type"`
	Name  string          `json:"name"`
	Phone string          `json:"phone,omitempty"`
}

// Assignee is the admin a complaint is assigned to.
type Assignee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Complaint is a support complaint as returned by GET /complaints.
type Complaint struct {
	ID              string          `json:"id"`
	Reference       string          `json:"reference"`
	Complainant     Complainant     `json:"complainant"`
	Category        string          `json:"category"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Status          ComplaintStatus `json:"status"`
	Priority        Priority        `json:"priority"`
	AssignedTo      *Assignee       `json:"assignedTo,omitempty"`
	ResolutionNotes string          `json:"resolutionNotes,omitempty"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

// AssigneeName returns the assignee's name or "Unassigned".
func (c Complaint) AssigneeName() string {
	if c.AssignedTo == nil || c.AssignedTo.Name == "" {
		return "Unassigned"
	}
	return c.AssignedTo.Name
}

// ComplaintCreate is the body of POST /complaints.
type ComplaintCreate struct {
	ComplainantType  ComplainantType `json:"complainantType"`
	ComplainantName  string          `json:"complainantName"`
	ComplainantPhone string          `json:"complainantPhone,omitempty"`
	Category         string          `json:"category,omitempty"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Priority         Priority        `json:"priority"`
}

// ComplaintUpdate is the body of PATCH /complaints/:id. Nil fields are left
// untouched by the API.
type ComplaintUpdate struct {
	Status          *ComplaintStatus `json:"status,omitempty"`
	Priority        *Priority        `json:"priority,omitempty"`
	AssignedTo      *string          `json:"assignedTo,omitempty"`
	ResolutionNotes *string          `json:"resolutionNotes,omitempty"`
}

// PriorityCounts breaks complaints down by priority.
type PriorityCounts struct {
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// ComplaintKPIs is the aggregate returned by GET /complaints/kpis.
type ComplaintKPIs struct {
	Total              int            `json:"total"`
	Open               int            `json:"open"`
	InProgress         int            `json:"inProgress"`
	Resolved           int            `json:"resolved"`
	Closed             int            `json:"closed"`
	ByPriority         PriorityCounts `json:"byPriority"`
	ResolutionRate     float64        `json:"resolutionRate"`
	AvgResolutionHours float64        `json:"avgResolutionHours"`
}

// label turns a snake_case enum value into "Title Case".
func label(v string) string {
	words := strings.Split(v, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
