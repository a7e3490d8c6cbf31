package models

import (
	"testing"
	"time"
)

func TestFollowUpUpdateSetFields(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	timeOfDay := "14:30"
	update := FollowUpUpdate{Date: &date, Time: &timeOfDay}

	set := update.SetFields()
	if len(set) != 2 {
		t.Fatalf("expected 2 set fields, got %d", len(set))
	}
	if set["time"] != "14:30" {
		t.Fatalf("unexpected set document: %v", set)
	}

	if !(FollowUpUpdate{}).IsEmpty() {
		t.Fatal("zero update should be empty")
	}
	if update.IsEmpty() {
		t.Fatal("populated update should not be empty")
	}
}

func TestValidFollowUpType(t *testing.T) {
	for _, followUpType := range []string{FollowUpCall, FollowUpEmail, FollowUpMeeting, FollowUpWhatsapp} {
		if !ValidFollowUpType(followUpType) {
			t.Errorf("%s should be valid", followUpType)
		}
	}
	if ValidFollowUpType("carrier-pigeon") {
		t.Fatal("unknown type should be invalid")
	}
}

func TestActivityTypeForFollowUp(t *testing.T) {
	cases := map[string]string{
		FollowUpCall:     ActivityCall,
		FollowUpEmail:    ActivityEmail,
		FollowUpMeeting:  ActivityMeeting,
		FollowUpWhatsapp: ActivityCall,
	}
	for input, want := range cases {
		if got := ActivityTypeForFollowUp(input); got != want {
			t.Errorf("ActivityTypeForFollowUp(%q) = %q, want %q", input, got, want)
		}
	}
	// Every mapped value stays inside the activity enumeration
	valid := map[string]bool{
		ActivityCall: true, ActivityEmail: true, ActivityNote: true,
		ActivityStatusChange: true, ActivityMeeting: true, ActivityRoleChange: true,
	}
	for _, followUpType := range []string{FollowUpCall, FollowUpEmail, FollowUpMeeting, FollowUpWhatsapp} {
		if !valid[ActivityTypeForFollowUp(followUpType)] {
			t.Fatalf("%s maps outside the activity enumeration", followUpType)
		}
	}
}
