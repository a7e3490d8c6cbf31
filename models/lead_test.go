package models

import (
	"testing"
	"time"
)

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"new":           StatusNew,
		"Proposal Sent": StatusProposalSent,
		"follow-up":     StatusFollowUp,
		"  WON  ":       StatusWon,
		"negotiating":   StatusNew,
		"":              StatusNew,
	}
	for input, want := range cases {
		if got := NormalizeStatus(input); got != want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeSource(t *testing.T) {
	cases := map[string]string{
		"website":   SourceWebsite,
		"Cold Call": SourceColdCall,
		"cold_call": SourceColdCall,
		"telepathy": SourceOther,
		"":          SourceOther,
	}
	for input, want := range cases {
		if got := NormalizeSource(input); got != want {
			t.Errorf("NormalizeSource(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTerminalStatus(t *testing.T) {
	if !TerminalStatus(StatusWon) || !TerminalStatus(StatusLost) {
		t.Fatal("won and lost are terminal")
	}
	for _, status := range []string{StatusNew, StatusContacted, StatusFollowUp, StatusInterested, StatusProposalSent} {
		if TerminalStatus(status) {
			t.Fatalf("%s should not be terminal", status)
		}
	}
}

func TestLeadUpdateSetFields(t *testing.T) {
	name := "Renamed"
	value := 42.5
	update := LeadUpdate{Name: &name, Value: &value}

	set := update.SetFields()
	if len(set) != 2 {
		t.Fatalf("expected 2 set fields, got %d", len(set))
	}
	if set["name"] != "Renamed" || set["value"] != 42.5 {
		t.Fatalf("unexpected set document: %v", set)
	}

	if (LeadUpdate{}).IsEmpty() != true {
		t.Fatal("zero update should be empty")
	}
	if update.IsEmpty() {
		t.Fatal("populated update should not be empty")
	}
}

func TestLeadUpdateApplyTo(t *testing.T) {
	lead := Lead{Name: "Before", Status: StatusNew, Value: 10}
	status := StatusWon
	reason := "signed annual contract"
	now := time.Now()

	update := LeadUpdate{Status: &status, WonReason: &reason}
	update.ApplyTo(&lead, now)

	if lead.Status != StatusWon || lead.WonReason != reason {
		t.Fatalf("update not applied: %+v", lead)
	}
	if lead.Name != "Before" || lead.Value != 10 {
		t.Fatal("absent fields must stay untouched")
	}
	if !lead.UpdatedAt.Equal(now) {
		t.Fatal("UpdatedAt should be refreshed")
	}
}
