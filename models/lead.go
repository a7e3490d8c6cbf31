// models/lead.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead statuses in pipeline order. Won and lost are terminal.
const (
	StatusNew          = "new"
	StatusContacted    = "contacted"
	StatusFollowUp     = "follow_up"
	StatusInterested   = "interested"
	StatusProposalSent = "proposal_sent"
	StatusWon          = "won"
	StatusLost         = "lost"
)

// LeadStatuses lists the pipeline stages in board order.
var LeadStatuses = []string{
	StatusNew,
	StatusContacted,
	StatusFollowUp,
	StatusInterested,
	StatusProposalSent,
	StatusWon,
	StatusLost,
}

// Lead sources
const (
	SourceWebsite       = "website"
	SourceReferral      = "referral"
	SourceSocial        = "social"
	SourceColdCall      = "cold-call"
	SourceEmail         = "email"
	SourceAdvertisement = "advertisement"
	SourceOther         = "other"
)

var LeadSources = []string{
	SourceWebsite,
	SourceReferral,
	SourceSocial,
	SourceColdCall,
	SourceEmail,
	SourceAdvertisement,
	SourceOther,
}

// Lead model
type Lead struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID     primitive.ObjectID  `json:"tenantId" bson:"tenantId"`
	Name         string              `json:"name" bson:"name"`
	Email        string              `json:"email,omitempty" bson:"email,omitempty"`
	Phone        string              `json:"phone,omitempty" bson:"phone,omitempty"`
	Company      string              `json:"company,omitempty" bson:"company,omitempty"`
	Requirement  string              `json:"requirement" bson:"requirement"`
	Source       string              `json:"source" bson:"source"`
	Status       string              `json:"status" bson:"status"`
	Value        float64             `json:"value" bson:"value"`
	AssignedTo   *primitive.ObjectID `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	AssignedName string              `json:"assignedName,omitempty" bson:"-"`
	CreatedBy    primitive.ObjectID  `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt" bson:"updatedAt"`
	FollowUpDate *time.Time          `json:"followUpDate,omitempty" bson:"followUpDate,omitempty"`
	WonReason    string              `json:"wonReason,omitempty" bson:"wonReason,omitempty"`
	LostReason   string              `json:"lostReason,omitempty" bson:"lostReason,omitempty"`
	Notes        []LeadNote          `json:"notes" bson:"-"`
}

// LeadNote is a timestamped annotation owned by exactly one lead.
// Notes are removed together with their lead.
type LeadNote struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	LeadID    primitive.ObjectID  `json:"leadId" bson:"leadId"`
	Content   string              `json:"content" bson:"content"`
	CreatedBy *primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
}

// LeadUpdate is a partial update: only non-nil fields are applied.
type LeadUpdate struct {
	Name         *string             `json:"name,omitempty"`
	Email        *string             `json:"email,omitempty"`
	Phone        *string             `json:"phone,omitempty"`
	Company      *string             `json:"company,omitempty"`
	Requirement  *string             `json:"requirement,omitempty"`
	Source       *string             `json:"source,omitempty"`
	Status       *string             `json:"status,omitempty"`
	Value        *float64            `json:"value,omitempty"`
	AssignedTo   *primitive.ObjectID `json:"assignedTo,omitempty"`
	FollowUpDate *time.Time          `json:"followUpDate,omitempty"`
	WonReason    *string             `json:"wonReason,omitempty"`
	LostReason   *string             `json:"lostReason,omitempty"`
}

// SetFields builds the $set document for the fields present in the update.
func (u LeadUpdate) SetFields() bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.Company != nil {
		set["company"] = *u.Company
	}
	if u.Requirement != nil {
		set["requirement"] = *u.Requirement
	}
	if u.Source != nil {
		set["source"] = *u.Source
	}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.Value != nil {
		set["value"] = *u.Value
	}
	if u.AssignedTo != nil {
		set["assignedTo"] = *u.AssignedTo
	}
	if u.FollowUpDate != nil {
		set["followUpDate"] = *u.FollowUpDate
	}
	if u.WonReason != nil {
		set["wonReason"] = *u.WonReason
	}
	if u.LostReason != nil {
		set["lostReason"] = *u.LostReason
	}
	return set
}

// ApplyTo merges the present fields into the lead and refreshes UpdatedAt.
func (u LeadUpdate) ApplyTo(lead *Lead, now time.Time) {
	if u.Name != nil {
		lead.Name = *u.Name
	}
	if u.Email != nil {
		lead.Email = *u.Email
	}
	if u.Phone != nil {
		lead.Phone = *u.Phone
	}
	if u.Company != nil {
		lead.Company = *u.Company
	}
	if u.Requirement != nil {
		lead.Requirement = *u.Requirement
	}
	if u.Source != nil {
		lead.Source = *u.Source
	}
	if u.Status != nil {
		lead.Status = *u.Status
	}
	if u.Value != nil {
		lead.Value = *u.Value
	}
	if u.AssignedTo != nil {
		lead.AssignedTo = u.AssignedTo
	}
	if u.FollowUpDate != nil {
		lead.FollowUpDate = u.FollowUpDate
	}
	if u.WonReason != nil {
		lead.WonReason = *u.WonReason
	}
	if u.LostReason != nil {
		lead.LostReason = *u.LostReason
	}
	lead.UpdatedAt = now
}

// IsEmpty reports whether no field is present in the update.
func (u LeadUpdate) IsEmpty() bool {
	return len(u.SetFields()) == 0
}

// ValidStatus checks a status against the fixed enumeration.
func ValidStatus(status string) bool {
	for _, s := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ValidSource checks a source against the fixed enumeration.
func ValidSource(source string) bool {
	for _, s := range LeadSources {
		if s == source {
			return true
		}
	}
	return false
}

// NormalizeStatus maps free-form input ("Proposal Sent", "follow-up") onto the
// status enumeration. Unrecognized values default to "new".
func NormalizeStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	if ValidStatus(s) {
		return s
	}
	return StatusNew
}

// NormalizeSource maps free-form input onto the source enumeration.
// Unrecognized values default to "other".
func NormalizeSource(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	if ValidSource(s) {
		return s
	}
	return SourceOther
}

// TerminalStatus reports whether the status closes the pipeline for a lead.
func TerminalStatus(status string) bool {
	return status == StatusWon || status == StatusLost
}

// CreateLeadRequest is the payload for creating a lead.
type CreateLeadRequest struct {
	Name         string     `json:"name" validate:"required"`
	Email        string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string     `json:"phone,omitempty"`
	Company      string     `json:"company,omitempty"`
	Requirement  string     `json:"requirement" validate:"required"`
	Source       string     `json:"source,omitempty"`
	Status       string     `json:"status,omitempty"`
	Value        float64    `json:"value" validate:"gte=0"`
	AssignedTo   string     `json:"assignedTo,omitempty"`
	FollowUpDate *time.Time `json:"followUpDate,omitempty"`
}

// AddNoteRequest is the payload for appending a note to a lead.
type AddNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// ReplaceNotesRequest replaces a lead's note list in one call.
type ReplaceNotesRequest struct {
	Notes []string `json:"notes"`
}
