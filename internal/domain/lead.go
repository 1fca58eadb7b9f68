package domain

import "time"

// LeadStatus tracks where a prospect sits in the funnel.
type LeadStatus string

const (
	StatusNew        LeadStatus = "NEW"
	StatusContacted  LeadStatus = "CONTACTED"
	StatusInterested LeadStatus = "INTERESTED"
	StatusConverted  LeadStatus = "CONVERTED"
	StatusLost       LeadStatus = "LOST"
)

// Statuses lists every lead status in funnel order.
var Statuses = []LeadStatus{StatusNew, StatusContacted, StatusInterested, StatusConverted, StatusLost}

// ValidStatus reports whether s is one of the known lead statuses.
func ValidStatus(s LeadStatus) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Lead is a sales prospect owned by exactly one user. Within an owner no two
// leads may share a non-empty email.
type Lead struct {
	ID        int64
	Name      string
	Location  string
	Phone     string
	Email     string
	Website   string
	Notes     string
	Source    string
	Status    LeadStatus
	UserID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Note is a free-text annotation on a lead. Notes die with their lead.
type Note struct {
	ID        int64
	Content   string
	LeadID    int64
	CreatedAt time.Time
}

// FollowUp is a scheduled task tied to a lead.
type FollowUp struct {
	ID          int64
	Title       string
	Description string
	DueDate     time.Time
	Completed   bool
	LeadID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LeadRef is the minimal lead projection attached to follow-up payloads.
type LeadRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
