package rollbar

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cresjie/rollbar/internal/check"
	"github.com/cresjie/rollbar/internal/diag"
)

// Hook signatures. All hooks are optional; a nil hook is skipped.
type (
	// TransformFunc may rewrite the assembled payload before serialization.
	// An error fails the report immediately and propagates to the caller.
	TransformFunc func(p *Payload, level Level, toLog any, extra map[string]any) (*Payload, error)

	// CheckIgnoreFunc suppresses a report before assembly, based on level
	// and the raw message.
	CheckIgnoreFunc func(level Level, toLog any) bool

	// CheckIgnorePayloadFunc suppresses a report after assembly, with
	// access to the full payload and the uncaught flag.
	CheckIgnorePayloadFunc func(p *Payload, accessToken string, toLog any, isUncaught bool) bool

	// ResponseHandlerFunc observes every dispatched payload and its
	// response, for side effects only.
	ResponseHandlerFunc func(p *Payload, r Response)
)

// Config holds the complete client configuration.
type Config struct {
	// AccessToken is the 32-character project token sent with every item.
	AccessToken string `yaml:"access_token" json:"access_token" env:"ROLLBAR_ACCESS_TOKEN"`

	// Environment tags items, e.g. "production" or "staging".
	// Default: "production"
	Environment string `yaml:"environment" json:"environment" env:"ROLLBAR_ENVIRONMENT"`

	// Endpoint is the collector item URL.
	Endpoint string `yaml:"endpoint" json:"endpoint" env:"ROLLBAR_ENDPOINT"`

	// Enabled globally switches reporting. When false every report call
	// short-circuits to a zero-status "Disabled" response.
	// Default: true
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Batched buffers encoded items and flushes them as one request.
	// Default: false
	Batched bool `yaml:"batched" json:"batched"`

	// BatchSize is the queue length that triggers an automatic flush.
	// Default: 50
	BatchSize int `yaml:"batch_size" json:"batch_size"`

	// MaxItems caps the number of items sent per process lifetime,
	// independent of batching. 0 means unlimited.
	MaxItems int `yaml:"max_items" json:"max_items"`

	// Format selects the wire encoding: "json" or "msgpack".
	// Default: "json"
	Format string `yaml:"format" json:"format"`

	// MaxPayloadSize is the encoded-size ceiling in bytes above which the
	// truncation stage starts trimming. 0 disables truncation.
	// Default: 512 KiB
	MaxPayloadSize int `yaml:"max_payload_size" json:"max_payload_size"`

	// ScrubFields are mapping keys redacted anywhere in the payload.
	ScrubFields []string `yaml:"scrub_fields" json:"scrub_fields"`

	// CustomKeys are mapping keys whose null values are kept during
	// serialization instead of being dropped.
	CustomKeys []string `yaml:"custom_keys" json:"custom_keys"`

	// RaiseOnError makes Report return an uncaught wrapped error to the
	// caller after the report has been delivered and logged.
	RaiseOnError bool `yaml:"raise_on_error" json:"raise_on_error"`

	// CodeVersion is stamped on every item when set.
	CodeVersion string `yaml:"code_version" json:"code_version"`

	// Host overrides the reported server host. Default: os.Hostname.
	Host string `yaml:"host" json:"host"`

	// Custom is merged into every item's custom data.
	Custom map[string]any `yaml:"custom" json:"custom"`

	// Timeout bounds each transport request.
	// Default: 3s
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Retries is the number of delivery attempts per request.
	// Default: 3
	Retries int `yaml:"retries" json:"retries"`

	// Diag configures the SDK's own diagnostic logging.
	Diag DiagConfig `yaml:"diag" json:"diag"`

	// Collaborator hooks; not loadable from file.
	Transform          TransformFunc          `yaml:"-" json:"-"`
	CheckIgnore        CheckIgnoreFunc        `yaml:"-" json:"-"`
	CheckIgnorePayload CheckIgnorePayloadFunc `yaml:"-" json:"-"`
	ResponseHandler    ResponseHandlerFunc    `yaml:"-" json:"-"`

	// DataBuilder overrides the default record builder.
	DataBuilder DataBuilder `yaml:"-" json:"-"`

	// Sender overrides the default HTTP transport.
	Sender Sender `yaml:"-" json:"-"`
}

// DiagConfig configures the client's diagnostic logger.
type DiagConfig struct {
	// Level is the minimum diagnostic level: debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// Console enables diagnostics on stderr.
	// Default: true
	Console bool `yaml:"console" json:"console"`

	// Pretty switches console diagnostics to a human-readable format.
	Pretty bool `yaml:"pretty" json:"pretty"`

	// File enables rotating-file diagnostics when Path is set.
	File DiagFileConfig `yaml:"file" json:"file"`
}

// DiagFileConfig configures rotating-file diagnostics.
type DiagFileConfig struct {
	Path       string `yaml:"path" json:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

// Default returns a Config with production defaults. An access token must
// still be set before the config passes validation.
func Default() Config {
	return Config{
		Environment:    "production",
		Endpoint:       "https://api.rollbar.com/api/1/item/",
		Enabled:        true,
		BatchSize:      50,
		Format:         FormatJSON,
		MaxPayloadSize: 512 * 1024,
		ScrubFields: []string{
			"passwd", "password", "password_confirmation", "confirm_password",
			"secret", "auth_token", "access_token", "csrf_token",
		},
		Timeout: 3 * time.Second,
		Retries: 3,
		Diag: DiagConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// LoadConfig reads a YAML config file into a Config layered over Default.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields the pipeline depends on.
func (c Config) Validate() error {
	if err := check.String(c.AccessToken, "access_token", 32, false); err != nil {
		return err
	}
	if err := check.Integer(c.BatchSize, "batch_size", check.Bound(1), nil, false); err != nil {
		return err
	}
	if err := check.Integer(c.MaxItems, "max_items", check.Bound(0), nil, false); err != nil {
		return err
	}
	if err := check.Integer(c.MaxPayloadSize, "max_payload_size", check.Bound(0), nil, false); err != nil {
		return err
	}
	if _, err := newEncoder(c.Format); err != nil {
		return err
	}
	return nil
}

// WithAccessToken returns a copy of the config with the token set.
func (c Config) WithAccessToken(token string) Config {
	c.AccessToken = token
	return c
}

// WithEnvironment returns a copy of the config with the environment set.
func (c Config) WithEnvironment(env string) Config {
	c.Environment = env
	return c
}

// WithEndpoint returns a copy of the config with the collector URL set.
func (c Config) WithEndpoint(url string) Config {
	c.Endpoint = url
	return c
}

// WithBatching returns a copy of the config with batching enabled at the
// given batch size.
func (c Config) WithBatching(batchSize int) Config {
	c.Batched = true
	c.BatchSize = batchSize
	return c
}

// WithMaxItems returns a copy of the config with the per-process ceiling set.
func (c Config) WithMaxItems(n int) Config {
	c.MaxItems = n
	return c
}

func (c Config) diagConfig() diag.Config {
	return diag.Config{
		Level:   c.Diag.Level,
		Console: c.Diag.Console,
		Pretty:  c.Diag.Pretty,
		File: diag.FileConfig{
			Path:       c.Diag.File.Path,
			MaxSizeMB:  c.Diag.File.MaxSizeMB,
			MaxAgeDays: c.Diag.File.MaxAgeDays,
			MaxBackups: c.Diag.File.MaxBackups,
			Compress:   c.Diag.File.Compress,
		},
	}
}
