// models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity types
const (
	ActivityCall         = "call"
	ActivityEmail        = "email"
	ActivityNote         = "note"
	ActivityStatusChange = "status_change"
	ActivityMeeting      = "meeting"
	ActivityRoleChange   = "role_change"
)

// ActivityTypeForFollowUp maps a follow-up channel onto the activity
// enumeration. WhatsApp touchpoints are recorded as calls; the trail
// carries no messaging-app type of its own.
func ActivityTypeForFollowUp(followUpType string) string {
	switch followUpType {
	case FollowUpEmail:
		return ActivityEmail
	case FollowUpMeeting:
		return ActivityMeeting
	default:
		return ActivityCall
	}
}

// Activity is an audit trail entry attached to a lead or tenant.
type Activity struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID    primitive.ObjectID  `json:"tenantId" bson:"tenantId"`
	LeadID      *primitive.ObjectID `json:"leadId,omitempty" bson:"leadId,omitempty"`
	Type        string              `json:"type" bson:"type"`
	Description string              `json:"description" bson:"description"`
	UserID      *primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	Timestamp   time.Time           `json:"timestamp" bson:"timestamp"`
}
