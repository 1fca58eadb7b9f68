package service

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/prospectly/leadtrack/internal/domain"
)

var validate = validator.New()

// LeadInput is the canonical shape a lead must satisfy before it is
// persisted, whether it arrives as a JSON payload or an import row.
type LeadInput struct {
	Name     string            `json:"name" validate:"required"`
	Location string            `json:"location"`
	Phone    string            `json:"phone"`
	Email    string            `json:"email" validate:"omitempty,email"`
	Website  string            `json:"website" validate:"omitempty,url"`
	Notes    string            `json:"notes"`
	Source   string            `json:"source"`
	Status   domain.LeadStatus `json:"status" validate:"omitempty,oneof=NEW CONTACTED INTERESTED CONVERTED LOST"`
}

// Validate checks the input and returns a client-facing message on failure.
func (in LeadInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errs, ok := err.(validator.ValidationErrors); ok {
			fieldErrs = errs
		}
		return invalidRequest(leadInputMessage(fieldErrs))
	}
	return nil
}

func leadInputMessage(errs validator.ValidationErrors) string {
	for _, fieldErr := range errs {
		switch fieldErr.Field() {
		case "Name":
			return "Name is required."
		case "Email":
			return "Invalid email address."
		case "Website":
			return "Invalid website URL."
		case "Status":
			return "Invalid lead status."
		}
	}
	return "Invalid lead payload."
}

// UpdateLeadInput is a partial lead update; nil fields are left untouched.
type UpdateLeadInput struct {
	Name     *string            `json:"name"`
	Location *string            `json:"location"`
	Phone    *string            `json:"phone"`
	Email    *string            `json:"email"`
	Website  *string            `json:"website"`
	Notes    *string            `json:"notes"`
	Source   *string            `json:"source"`
	Status   *domain.LeadStatus `json:"status"`
}

// apply overlays the update onto an existing lead and returns the
// resulting canonical input for validation.
func (in UpdateLeadInput) apply(lead *domain.Lead) LeadInput {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&lead.Name, in.Name)
	setString(&lead.Location, in.Location)
	setString(&lead.Phone, in.Phone)
	setString(&lead.Email, in.Email)
	setString(&lead.Website, in.Website)
	setString(&lead.Notes, in.Notes)
	setString(&lead.Source, in.Source)
	if in.Status != nil {
		lead.Status = *in.Status
	}

	return LeadInput{
		Name:     lead.Name,
		Location: lead.Location,
		Phone:    lead.Phone,
		Email:    lead.Email,
		Website:  lead.Website,
		Notes:    lead.Notes,
		Source:   lead.Source,
		Status:   lead.Status,
	}
}
