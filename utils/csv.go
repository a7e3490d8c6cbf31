// utils/csv.go
package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/leadflow/leadflow_backend/models"
)

// Import column schema. Header order in uploads is free; these columns must
// all be present.
var requiredCSVHeaders = []string{"name", "email", "phone", "requirement", "source", "value"}

// SampleLeadsCSV is the template users download before importing.
const SampleLeadsCSV = `name,email,phone,company,requirement,source,status,value
Rahul Sharma,rahul@example.com,9876543210,TechCorp India,Website Development,website,new,50000
Priya Patel,priya@business.com,9123456789,StartupXYZ,Mobile App,referral,contacted,150000
Amit Kumar,amit@gmail.com,8765432109,Digital Solutions,SEO Services,social,follow_up,25000
Sneha Reddy,sneha@company.co,7654321098,CloudTech,Cloud Migration,email,interested,200000
Vikram Singh,vikram@enterprise.in,6543210987,MegaCorp,ERP Implementation,cold-call,proposal_sent,500000
`

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ParseLeadsCSV reads the fixed lead import schema. Rows with missing
// required fields or a malformed email are rejected individually with an
// error naming the row; source and status values are normalized against the
// enumerations, defaulting to other/new.
func ParseLeadsCSV(r io.Reader, tenantID, createdBy primitive.ObjectID) ([]models.Lead, []string) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, []string{"Failed to parse CSV: " + err.Error()}
	}
	if len(records) < 2 {
		return nil, []string{"CSV file is empty or has no data rows"}
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var errs []string
	for _, required := range requiredCSVHeaders {
		found := false
		for _, h := range headers {
			if h == required {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, "Missing required column: "+required)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var leads []models.Lead
	now := time.Now()
	for i, record := range records[1:] {
		rowNum := i + 2 // 1-based, counting the header row

		row := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(record) {
				row[h] = strings.TrimSpace(record[j])
			}
		}

		if row["name"] == "" || row["email"] == "" || row["phone"] == "" || row["requirement"] == "" {
			errs = append(errs, fmt.Sprintf("Row %d: Missing required fields (name, email, phone, requirement)", rowNum))
			continue
		}

		if !emailPattern.MatchString(row["email"]) {
			errs = append(errs, fmt.Sprintf("Row %d: Invalid email format", rowNum))
			continue
		}

		value, err := strconv.ParseFloat(row["value"], 64)
		if err != nil || value < 0 {
			value = 0
		}

		leads = append(leads, models.Lead{
			ID:          primitive.NewObjectID(),
			TenantID:    tenantID,
			Name:        row["name"],
			Email:       row["email"],
			Phone:       row["phone"],
			Company:     row["company"],
			Requirement: row["requirement"],
			Source:      models.NormalizeSource(row["source"]),
			Status:      models.NormalizeStatus(row["status"]),
			Value:       value,
			CreatedBy:   createdBy,
			CreatedAt:   now,
			UpdatedAt:   now,
			Notes:       []models.LeadNote{},
		})
	}

	return leads, errs
}

// WriteLeadsCSV exports leads in the import schema so an export round-trips.
func WriteLeadsCSV(w io.Writer, leads []models.Lead) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"name", "email", "phone", "company", "requirement", "source", "status", "value"}); err != nil {
		return err
	}

	for _, lead := range leads {
		record := []string{
			lead.Name,
			lead.Email,
			lead.Phone,
			lead.Company,
			lead.Requirement,
			lead.Source,
			lead.Status,
			strconv.FormatFloat(lead.Value, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
