// utils/email.go
package utils

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/gomail.v2"
)

func sendMail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	if smtpHost == "" {
		log.Printf("SMTP_HOST not configured, skipping email to %s", to)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

// SendFollowUpReminder emails the assignee about an upcoming follow-up.
func SendFollowUpReminder(to, assigneeName, leadName, followUpType, date, timeOfDay string) error {
	subject := fmt.Sprintf("Follow-up reminder: %s", leadName)
	body := fmt.Sprintf("Dear %s,\n\nYou have a %s follow-up scheduled with %s on %s at %s.\n\nBest regards,\nLeadFlow",
		assigneeName, followUpType, leadName, date, timeOfDay)
	if err := sendMail(to, subject, body); err != nil {
		log.Printf("Failed to send follow-up reminder to %s: %v", to, err)
		return err
	}
	return nil
}

// SendLeadAssignedEmail tells a team member a lead was assigned to them.
func SendLeadAssignedEmail(to, assigneeName, leadName, assignerName string) error {
	subject := fmt.Sprintf("Lead assigned: %s", leadName)
	body := fmt.Sprintf("Dear %s,\n\n%s assigned the lead %q to you.\n\nBest regards,\nLeadFlow",
		assigneeName, assignerName, leadName)
	if err := sendMail(to, subject, body); err != nil {
		log.Printf("Failed to send lead assignment email to %s: %v", to, err)
		return err
	}
	return nil
}
