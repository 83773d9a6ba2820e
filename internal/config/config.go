package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/keybridge-io/license-bridge/constant"
)

// Config holds every credential and identifier the bridge needs. It is
// built once at process start and passed by injection; components never
// reach into ambient environment state.
type Config struct {
	// Licensing service
	KeygenAccountID  string `envconfig:"KEYGEN_ACCOUNT_ID"`
	KeygenAdminToken string `envconfig:"KEYGEN_ADMIN_TOKEN"`
	KeygenBaseURL    string `envconfig:"KEYGEN_BASE_URL"`

	// Commerce platform
	FastSpringAPIUsername   string `envconfig:"FASTSPRING_API_USERNAME"`
	FastSpringAPIPassword   string `envconfig:"FASTSPRING_API_PASSWORD"`
	FastSpringWebhookSecret string `envconfig:"FASTSPRING_WEBHOOK_SECRET"`
	FastSpringLicenseGenKey string `envconfig:"FASTSPRING_LICENSE_GEN_PRIVATE_KEY"`
	FastSpringBaseURL       string `envconfig:"FASTSPRING_BASE_URL"`

	// Pledge platform
	PatreonWebhookSecret string `envconfig:"PATREON_WEBHOOK_SECRET"`
	CommunityPolicyID    string `envconfig:"COMMUNITY_KEYGEN_POLICY_ID"`

	// Notification side-channel
	SMTPServer   string `envconfig:"SMTP_SERVER"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM"`

	// Server
	ListenAddr  string        `envconfig:"LISTEN_ADDR" default:":8080"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`

	// PolicyAliases maps well-known short names to canonical policy ids,
	// e.g. "STUDIO:b60267b3-...,INDIE:77e58101-...". CLI boundary only.
	PolicyAliases map[string]string `envconfig:"POLICY_ALIASES"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.KeygenBaseURL == "" {
		cfg.KeygenBaseURL = constant.DefaultKeygenBaseURL
	}

	if cfg.FastSpringBaseURL == "" {
		cfg.FastSpringBaseURL = constant.DefaultFastSpringBaseURL
	}

	return &cfg, nil
}

// Validate checks the fields every deployment needs. Channel-specific
// secrets are checked by the components that use them so a deployment can
// run with a subset of webhook sources configured.
func (c *Config) Validate() error {
	if c.KeygenAccountID == "" {
		return errors.New("keygen account id is required")
	}

	if c.KeygenAdminToken == "" {
		return errors.New("keygen admin token is required")
	}

	return nil
}

// ResolvePolicy maps a policy alias to its canonical id. Unknown names are
// returned unchanged with ok=false so callers can apply their own checks.
func (c *Config) ResolvePolicy(name string) (string, bool) {
	if id, ok := c.PolicyAliases[name]; ok {
		return id, true
	}

	return name, false
}
