package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
)

// LeadStatus represents the sales pipeline stage of a lead
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

// IsValid reports whether the status is known
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

// LeadSource is where a lead came from
type LeadSource string

const (
	LeadSourceWebsite   LeadSource = "website"
	LeadSourceInstagram LeadSource = "instagram"
	LeadSourceReferral  LeadSource = "referral"
	LeadSourceWalkIn    LeadSource = "walk_in"
	LeadSourceEvent     LeadSource = "event"
	LeadSourceOther     LeadSource = "other"
)

// IsValid reports whether the source is known
func (s LeadSource) IsValid() bool {
	switch s {
	case LeadSourceWebsite, LeadSourceInstagram, LeadSourceReferral, LeadSourceWalkIn, LeadSourceEvent, LeadSourceOther:
		return true
	}
	return false
}

// Lead is a prospective customer captured from a contact form or in store
type Lead struct {
	shared.BaseEntity
	Name       string
	Email      string
	Phone      string
	Source     LeadSource
	Status     LeadStatus
	Interest   string
	Message    string
	CustomerID *uuid.UUID
}

// NewLead creates a lead in the new stage
func NewLead(name, email string, source LeadSource) (*Lead, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Lead name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Lead name cannot exceed 200 characters")
	}
	normalized, err := shared.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if source == "" {
		source = LeadSourceWebsite
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Lead source is not recognized")
	}

	return &Lead{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      normalized,
		Source:     source,
		Status:     LeadStatusNew,
	}, nil
}

// SetDetails sets phone, interest and free-text message
func (l *Lead) SetDetails(phone, interest, message string) {
	l.Phone = strings.TrimSpace(phone)
	l.Interest = strings.TrimSpace(interest)
	l.Message = message
	l.Touch()
}

// ChangeStatus moves the lead through the pipeline.
// Conversion must go through MarkConverted so the customer link is recorded.
func (l *Lead) ChangeStatus(status LeadStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Lead status is not recognized")
	}
	if l.Status == LeadStatusConverted {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Converted leads cannot change status")
	}
	if status == LeadStatusConverted {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Use lead conversion to mark a lead converted")
	}
	l.Status = status
	l.Touch()
	return nil
}

// MarkConverted links the lead to a customer
func (l *Lead) MarkConverted(customerID uuid.UUID) error {
	if l.Status == LeadStatusConverted {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Lead is already converted")
	}
	l.Status = LeadStatusConverted
	l.CustomerID = &customerID
	l.Touch()
	return nil
}

// IsOpen reports whether the lead is still being worked
func (l *Lead) IsOpen() bool {
	return l.Status == LeadStatusNew || l.Status == LeadStatusContacted || l.Status == LeadStatusQualified
}
