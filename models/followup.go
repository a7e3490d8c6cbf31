// models/followup.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Follow-up channel types
const (
	FollowUpCall     = "call"
	FollowUpEmail    = "email"
	FollowUpMeeting  = "meeting"
	FollowUpWhatsapp = "whatsapp"
)

// FollowUp is a scheduled touchpoint with a lead.
type FollowUp struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID  primitive.ObjectID `json:"tenantId" bson:"tenantId"`
	LeadID    primitive.ObjectID `json:"leadId" bson:"leadId"`
	Date      time.Time          `json:"date" bson:"date"`
	Time      string             `json:"time" bson:"time"`
	Type      string             `json:"type" bson:"type"`
	Notes     string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Completed bool               `json:"completed" bson:"completed"`
	CreatedBy primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ValidFollowUpType checks a channel against the enumeration.
func ValidFollowUpType(followUpType string) bool {
	switch followUpType {
	case FollowUpCall, FollowUpEmail, FollowUpMeeting, FollowUpWhatsapp:
		return true
	}
	return false
}

// CreateFollowUpRequest schedules a follow-up for a lead.
type CreateFollowUpRequest struct {
	LeadID string    `json:"leadId" validate:"required"`
	Date   time.Time `json:"date" validate:"required"`
	Time   string    `json:"time" validate:"required"`
	Type   string    `json:"type" validate:"required,oneof=call email meeting whatsapp"`
	Notes  string    `json:"notes,omitempty"`
}

// FollowUpUpdate is a partial update: only non-nil fields are applied.
type FollowUpUpdate struct {
	Date  *time.Time `json:"date,omitempty"`
	Time  *string    `json:"time,omitempty"`
	Type  *string    `json:"type,omitempty"`
	Notes *string    `json:"notes,omitempty"`
}

// SetFields builds the $set document for the fields present in the update.
func (u FollowUpUpdate) SetFields() bson.M {
	set := bson.M{}
	if u.Date != nil {
		set["date"] = *u.Date
	}
	if u.Time != nil {
		set["time"] = *u.Time
	}
	if u.Type != nil {
		set["type"] = *u.Type
	}
	if u.Notes != nil {
		set["notes"] = *u.Notes
	}
	return set
}

// IsEmpty reports whether no field is present in the update.
func (u FollowUpUpdate) IsEmpty() bool {
	return len(u.SetFields()) == 0
}
