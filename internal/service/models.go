package service

import (
	"time"

	"github.com/prospectly/leadtrack/internal/domain"
	"github.com/prospectly/leadtrack/internal/repository"
)

// UserViewModel represents lightweight account data returned to clients.
type UserViewModel struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthSession bundles a session token with the account it belongs to.
type AuthSession struct {
	User  UserViewModel `json:"user"`
	Token string        `json:"token"`
}

// LeadViewModel is the lead payload for list and detail responses.
type LeadViewModel struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Location      string            `json:"location,omitempty"`
	Phone         string            `json:"phone,omitempty"`
	Email         string            `json:"email,omitempty"`
	Website       string            `json:"website,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Source        string            `json:"source,omitempty"`
	Status        domain.LeadStatus `json:"status"`
	UserID        int64             `json:"user_id"`
	NoteCount     int64             `json:"note_count"`
	FollowUpCount int64             `json:"follow_up_count"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// LeadDetail is a lead with its notes (newest first) and follow-ups
// (soonest due first) attached.
type LeadDetail struct {
	LeadViewModel
	Notes     []NoteViewModel     `json:"lead_notes"`
	FollowUps []FollowUpViewModel `json:"follow_ups"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// LeadPage is one page of leads.
type LeadPage struct {
	Leads      []LeadViewModel `json:"leads"`
	Pagination Pagination      `json:"pagination"`
}

// NoteViewModel is the note payload returned to clients.
type NoteViewModel struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	LeadID    int64     `json:"lead_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FollowUpViewModel is the follow-up payload, optionally carrying its lead.
type FollowUpViewModel struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	DueDate     time.Time       `json:"due_date"`
	Completed   bool            `json:"completed"`
	LeadID      int64           `json:"lead_id"`
	Lead        *domain.LeadRef `json:"lead,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newUserViewModel(user domain.User) UserViewModel {
	return UserViewModel{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func newLeadViewModel(lead domain.Lead, noteCount, followUpCount int64) LeadViewModel {
	return LeadViewModel{
		ID:            lead.ID,
		Name:          lead.Name,
		Location:      lead.Location,
		Phone:         lead.Phone,
		Email:         lead.Email,
		Website:       lead.Website,
		Notes:         lead.Notes,
		Source:        lead.Source,
		Status:        lead.Status,
		UserID:        lead.UserID,
		NoteCount:     noteCount,
		FollowUpCount: followUpCount,
		CreatedAt:     lead.CreatedAt,
		UpdatedAt:     lead.UpdatedAt,
	}
}

func newNoteViewModel(note domain.Note) NoteViewModel {
	return NoteViewModel{
		ID:        note.ID,
		Content:   note.Content,
		LeadID:    note.LeadID,
		CreatedAt: note.CreatedAt,
	}
}

func newFollowUpViewModel(followUp domain.FollowUp, lead *domain.LeadRef) FollowUpViewModel {
	return FollowUpViewModel{
		ID:          followUp.ID,
		Title:       followUp.Title,
		Description: followUp.Description,
		DueDate:     followUp.DueDate,
		Completed:   followUp.Completed,
		LeadID:      followUp.LeadID,
		Lead:        lead,
		CreatedAt:   followUp.CreatedAt,
		UpdatedAt:   followUp.UpdatedAt,
	}
}

func newFollowUpList(items []repository.FollowUpWithLead) []FollowUpViewModel {
	followUps := make([]FollowUpViewModel, 0, len(items))
	for _, item := range items {
		lead := item.Lead
		followUps = append(followUps, newFollowUpViewModel(item.FollowUp, &lead))
	}
	return followUps
}
