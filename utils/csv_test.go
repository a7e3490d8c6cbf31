package utils

import (
	"bytes"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/leadflow/leadflow_backend/models"
)

func TestParseLeadsCSVSample(t *testing.T) {
	leads, errs := ParseLeadsCSV(strings.NewReader(SampleLeadsCSV), primitive.NewObjectID(), primitive.NewObjectID())
	if len(errs) != 0 {
		t.Fatalf("sample CSV must parse cleanly, got errors: %v", errs)
	}
	if len(leads) != 5 {
		t.Fatalf("expected 5 leads, got %d", len(leads))
	}

	first := leads[0]
	if first.Name != "Rahul Sharma" || first.Source != models.SourceWebsite || first.Status != models.StatusNew {
		t.Fatalf("unexpected first lead: %+v", first)
	}
	if first.Value != 50000 {
		t.Fatalf("expected value 50000, got %v", first.Value)
	}
	if leads[4].Status != models.StatusProposalSent {
		t.Fatalf("expected proposal_sent, got %s", leads[4].Status)
	}
}

func TestParseLeadsCSVRowErrors(t *testing.T) {
	csv := "name,email,phone,requirement,source,value\n" +
		"Good Lead,good@example.com,123456,Website,website,1000\n" +
		"Bad Email,not-an-email,123456,Website,website,1000\n" +
		",missing@example.com,123456,Website,website,1000\n" +
		"Another Good,ok@example.com,654321,SEO,referral,2000\n"

	leads, errs := ParseLeadsCSV(strings.NewReader(csv), primitive.NewObjectID(), primitive.NewObjectID())
	if len(leads) != 2 {
		t.Fatalf("expected 2 valid leads, got %d", len(leads))
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 row errors, got %v", errs)
	}
	// Row numbers are 1-based and count the header
	if !strings.Contains(errs[0], "Row 3") {
		t.Fatalf("expected error naming row 3, got %q", errs[0])
	}
	if !strings.Contains(errs[1], "Row 4") {
		t.Fatalf("expected error naming row 4, got %q", errs[1])
	}
}

func TestParseLeadsCSVMissingColumn(t *testing.T) {
	csv := "name,email,phone,source,value\nLead,a@b.co,123,website,10\n"

	leads, errs := ParseLeadsCSV(strings.NewReader(csv), primitive.NewObjectID(), primitive.NewObjectID())
	if leads != nil {
		t.Fatal("missing required column must reject the whole file")
	}
	if len(errs) != 1 || !strings.Contains(errs[0], "requirement") {
		t.Fatalf("expected missing-column error for requirement, got %v", errs)
	}
}

func TestParseLeadsCSVEmptyFile(t *testing.T) {
	_, errs := ParseLeadsCSV(strings.NewReader("name,email,phone,requirement,source,value\n"), primitive.NewObjectID(), primitive.NewObjectID())
	if len(errs) == 0 {
		t.Fatal("header-only file must report an error")
	}
}

func TestParseLeadsCSVNormalizesEnums(t *testing.T) {
	csv := "name,email,phone,requirement,source,status,value\n" +
		"Lead,a@b.co,123,Website,Cold Call,Proposal Sent,10\n" +
		"Lead2,c@d.co,456,App,telepathy,negotiating,abc\n"

	leads, errs := ParseLeadsCSV(strings.NewReader(csv), primitive.NewObjectID(), primitive.NewObjectID())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if leads[0].Source != models.SourceColdCall || leads[0].Status != models.StatusProposalSent {
		t.Fatalf("free-form enum values should normalize, got source=%s status=%s", leads[0].Source, leads[0].Status)
	}
	// Unknown enums and unparseable values fall back to defaults
	if leads[1].Source != models.SourceOther || leads[1].Status != models.StatusNew {
		t.Fatalf("unknown enum values should default, got source=%s status=%s", leads[1].Source, leads[1].Status)
	}
	if leads[1].Value != 0 {
		t.Fatalf("unparseable value should default to 0, got %v", leads[1].Value)
	}
}

func TestWriteLeadsCSVRoundTrips(t *testing.T) {
	tenantID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	original, errs := ParseLeadsCSV(strings.NewReader(SampleLeadsCSV), tenantID, userID)
	if len(errs) != 0 {
		t.Fatalf("sample CSV must parse cleanly, got %v", errs)
	}

	buffer := new(bytes.Buffer)
	if err := WriteLeadsCSV(buffer, original); err != nil {
		t.Fatalf("WriteLeadsCSV failed: %v", err)
	}

	reparsed, errs := ParseLeadsCSV(buffer, tenantID, userID)
	if len(errs) != 0 {
		t.Fatalf("exported CSV must re-import cleanly, got %v", errs)
	}
	if len(reparsed) != len(original) {
		t.Fatalf("expected %d leads after round trip, got %d", len(original), len(reparsed))
	}
	for i := range original {
		if reparsed[i].Name != original[i].Name ||
			reparsed[i].Email != original[i].Email ||
			reparsed[i].Source != original[i].Source ||
			reparsed[i].Status != original[i].Status ||
			reparsed[i].Value != original[i].Value {
			t.Fatalf("lead %d changed across the round trip: %+v vs %+v", i, original[i], reparsed[i])
		}
	}
}
