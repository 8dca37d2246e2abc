package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration values
type Config struct {
	Host              string        `envconfig:"HOST"`
	Port              string        `envconfig:"PORT" default:"8080"`
	ReadTimeout       time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"5s"`
	WriteTimeout      time.Duration `envconfig:"WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `envconfig:"IDLE_TIMEOUT" default:"30s"`
	GinMode           string        `envconfig:"GIN_MODE" default:"release"`
	CORSOrigins       []string      `envconfig:"CORS_ORIGINS" default:"*"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	SMTPHost       string        `envconfig:"SMTP_HOST" default:"smtp.office365.com"`
	SMTPPort       int           `envconfig:"SMTP_PORT" default:"587"`
	SMTPAuth       string        `envconfig:"SMTP_AUTH" default:"LOGIN"`
	SMTPTimeout    time.Duration `envconfig:"SMTP_TIMEOUT" default:"30s"`
	SenderEmail    string        `envconfig:"SENDER_EMAIL"`
	SenderPassword string        `envconfig:"SENDER_PASSWORD"`
	AdminEmail     string        `envconfig:"ADMIN_EMAIL"`

	GitHubToken          string        `envconfig:"GITHUB_TOKEN"`
	GitHubOwner          string        `envconfig:"GITHUB_OWNER" default:"newtglobalgit"`
	GitHubRepo           string        `envconfig:"GITHUB_REPO" default:"DMAP_SAAS_OFFER_TERRAFORM"`
	GitHubFilePath       string        `envconfig:"GITHUB_FILE_PATH" default:"terraform.auto.tfvars"`
	GitHubBaseBranch     string        `envconfig:"GITHUB_BASE_BRANCH" default:"main"`
	GitHubAPIURL         string        `envconfig:"GITHUB_API_URL"`
	GitHubCallTimeout    time.Duration `envconfig:"GITHUB_CALL_TIMEOUT" default:"15s"`
	GitHubCommitterName  string        `envconfig:"GITHUB_COMMITTER_NAME"`
	GitHubCommitterEmail string        `envconfig:"GITHUB_COMMITTER_EMAIL"`

	TwilioAccountSID string        `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string        `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string        `envconfig:"TWILIO_FROM_NUMBER"`
	AdminPhone       string        `envconfig:"ADMIN_PHONE"`
	SMSTimeout       time.Duration `envconfig:"SMS_TIMEOUT" default:"10s"`
}

// LoadConfig reads configuration from envFile (when present) and the
// environment, then checks that every required secret is set.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = cfg.SubmissionTimeout() + writeTimeoutSlack
	}

	return cfg, nil
}

// githubCallsPerSubmission is the most GitHub calls one submission makes:
// default branch, head, create branch, two file reads and the commit.
const githubCallsPerSubmission = 6

const writeTimeoutSlack = 10 * time.Second

// SubmissionTimeout is the longest one submission can take when every
// outbound call runs to its timeout.
func (c *Config) SubmissionTimeout() time.Duration {
	d := c.SMTPTimeout + githubCallsPerSubmission*c.GitHubCallTimeout
	if c.SMSEnabled() {
		d += c.SMSTimeout
	}
	return d
}

// Validate reports every missing required variable at once.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"GITHUB_TOKEN", c.GitHubToken},
		{"SENDER_EMAIL", c.SenderEmail},
		{"SENDER_PASSWORD", c.SenderPassword},
		{"ADMIN_EMAIL", c.AdminEmail},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.GitHubOwner == "" || c.GitHubRepo == "" || c.GitHubFilePath == "" {
		return errors.New("GITHUB_OWNER, GITHUB_REPO and GITHUB_FILE_PATH must not be empty")
	}

	return nil
}

// SMSEnabled reports whether the optional Twilio alert channel is configured.
func (c *Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" &&
		c.TwilioFromNumber != "" && c.AdminPhone != ""
}
