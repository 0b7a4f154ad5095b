// Package samples writes starter config and recipient files so a new
// operator can run a campaign after filling in their own values.
package samples

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Kessler0712/ColdMailer/pkg/config"
)

const sampleBody = `Hi {first_name},

I hope this email finds you well. I came across {company} and was impressed by your work in {industry}.

I believe there might be an opportunity for us to collaborate on {potential_project}. Would you be interested in a brief 15-minute call to discuss this further?

Looking forward to hearing from you.

Best regards,
{your_name}
{your_title}
{your_company}
{your_phone}`

var sampleHeader = []string{
	"email", "first_name", "last_name", "company", "industry",
	"potential_project", "your_name", "your_title", "your_company", "your_phone",
}

var sampleRows = [][]string{
	{
		"john.doe@example.com", "John", "Doe", "TechCorp", "software development",
		"web application development", "Jane Smith", "Business Development Manager",
		"Innovation Labs", "+1-555-0123",
	},
	{
		"jane.smith@example.com", "Jane", "Smith", "StartupXYZ", "e-commerce",
		"digital marketing strategy", "Jane Smith", "Business Development Manager",
		"Innovation Labs", "+1-555-0123",
	},
}

// WriteConfig writes a sample config.json to path.
func WriteConfig(path string) error {
	cfg := config.Config{
		Email: config.EmailConfig{
			SMTPServer:     "smtp.gmail.com",
			SMTPPort:       587,
			SenderEmail:    "your-email@gmail.com",
			SenderPassword: "your-app-password",
		},
		Template: config.TemplateConfig{
			Subject: "Hi {first_name}, I'd love to connect about {company}",
			Body:    sampleBody,
		},
		RateLimiting: config.RateLimitConfig{
			MinDelaySeconds:  30,
			MaxDelaySeconds:  60,
			MaxEmailsPerHour: 50,
		},
	}

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// WriteRecipients writes a sample recipients.csv to path.
func WriteRecipients(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write sample recipients: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, row := range sampleRows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
