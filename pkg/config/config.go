package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Kessler0712/ColdMailer/internal/campaign"
)

type EmailConfig struct {
	SMTPServer     string `json:"smtp_server"`
	SMTPPort       int    `json:"smtp_port"`
	SenderEmail    string `json:"sender_email"`
	SenderPassword string `json:"sender_password"`
}

type TemplateConfig struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	// MissingFieldFallback, when set, replaces any missing record field
	// instead of failing the render.
	MissingFieldFallback string `json:"missing_field_fallback,omitempty"`
}

type RateLimitConfig struct {
	MinDelaySeconds     float64 `json:"min_delay_seconds"`
	MaxDelaySeconds     float64 `json:"max_delay_seconds"`
	MaxEmailsPerHour    int     `json:"max_emails_per_hour"`
	DryRunConsumesQuota *bool   `json:"dry_run_consumes_quota,omitempty"`
}

type Config struct {
	Email        EmailConfig     `json:"email"`
	Template     TemplateConfig  `json:"template"`
	RateLimiting RateLimitConfig `json:"rate_limiting"`
}

// Load reads and validates the JSON config file. SENDER_PASSWORD in the
// environment overrides the password field so the secret can stay out
// of the file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{
		Email: EmailConfig{SMTPPort: 587},
		RateLimiting: RateLimitConfig{
			MinDelaySeconds:  30,
			MaxDelaySeconds:  60,
			MaxEmailsPerHour: 50,
		},
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if pw := os.Getenv("SENDER_PASSWORD"); pw != "" {
		cfg.Email.SenderPassword = pw
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Email.SMTPServer == "" || c.Email.SenderEmail == "" || c.Email.SenderPassword == "" {
		return fmt.Errorf("missing required email configuration (smtp_server, sender_email, sender_password)")
	}
	if c.Email.SMTPPort <= 0 || c.Email.SMTPPort > 65535 {
		return fmt.Errorf("invalid smtp_port %d", c.Email.SMTPPort)
	}
	if c.Template.Subject == "" || c.Template.Body == "" {
		return fmt.Errorf("email template must include subject and body")
	}
	rl := c.RateLimiting
	if rl.MinDelaySeconds < 0 || rl.MaxDelaySeconds < 0 {
		return fmt.Errorf("rate limit delays must not be negative")
	}
	if rl.MinDelaySeconds > rl.MaxDelaySeconds {
		return fmt.Errorf("min_delay_seconds %.1f exceeds max_delay_seconds %.1f", rl.MinDelaySeconds, rl.MaxDelaySeconds)
	}
	if rl.MaxEmailsPerHour < 1 {
		return fmt.Errorf("max_emails_per_hour must be at least 1, got %d", rl.MaxEmailsPerHour)
	}
	return nil
}

func (c *Config) CampaignTemplate() campaign.Template {
	return campaign.Template{Subject: c.Template.Subject, Body: c.Template.Body}
}

func (c *Config) Policy() campaign.Policy {
	dryConsumes := true
	if c.RateLimiting.DryRunConsumesQuota != nil {
		dryConsumes = *c.RateLimiting.DryRunConsumesQuota
	}
	return campaign.Policy{
		MinDelay:            secondsToDuration(c.RateLimiting.MinDelaySeconds),
		MaxDelay:            secondsToDuration(c.RateLimiting.MaxDelaySeconds),
		MaxPerHour:          c.RateLimiting.MaxEmailsPerHour,
		DryRunConsumesQuota: dryConsumes,
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
