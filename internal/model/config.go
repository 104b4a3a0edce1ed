package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the complete runtime configuration for a digest run
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Sections   []SectionSpec    `yaml:"sections"`
	Importance ImportanceConfig `yaml:"importance"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	LLM        LLMConfig        `yaml:"llm"`
	Cache      CacheConfig      `yaml:"cache"`
	Output     OutputConfig     `yaml:"output"`
}

// DataConfig locates the snapshot files produced by the collector
type DataConfig struct {
	Dir string `yaml:"dir"` // Directory searched for snapshot candidates
}

// ImportanceConfig carries the keyword vocabularies that drive tier
// assignment. Matching is case-insensitive substring containment.
type ImportanceConfig struct {
	Social []string `yaml:"social"` // Matched against source and URL
	Video  []string `yaml:"video"`  // Matched against source and URL
	Vendor []string `yaml:"vendor"` // Matched against source only
}

// SMTPConfig describes the outbound mail account and transport behavior
type SMTPConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"` // Used by the STARTTLS and plain strategies
	Sender       string        `yaml:"sender"`
	Password     string        `yaml:"password"`
	Recipient    string        `yaml:"recipient"` // One address, or several separated by commas
	Timeout      time.Duration `yaml:"timeout"`   // Per-attempt budget, connect through send
	DialInterval time.Duration `yaml:"dial_interval"` // Minimum spacing between attempts
	Strategies   []string      `yaml:"strategies"`    // Transport strategies, tried in order
}

// MissingFields returns the names of required SMTP settings that are
// absent or unusable, in a fixed report order. An empty result means
// delivery can be attempted.
func (c *SMTPConfig) MissingFields() []string {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "smtp.host (SMTP_SERVER)")
	}
	if c.Port <= 0 || c.Port > 65535 {
		missing = append(missing, "smtp.port (SMTP_PORT)")
	}
	if c.Sender == "" {
		missing = append(missing, "smtp.sender (SENDER_EMAIL)")
	}
	if c.Password == "" {
		missing = append(missing, "smtp.password (SMTP_PASSWORD)")
	}
	if c.Recipient == "" {
		missing = append(missing, "smtp.recipient (RECEIVER_EMAIL)")
	}
	return missing
}

// Recipients splits the recipient setting on commas and trims each entry.
func (c *SMTPConfig) Recipients() []string {
	var out []string
	for _, r := range strings.Split(c.Recipient, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// LLMConfig controls the optional digest overview. Disabled unless a
// provider is named; a failing provider never blocks the digest.
type LLMConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Provider   string `yaml:"provider"` // openai, anthropic, ollama
	Model      string `yaml:"model"`    // Provider default when empty
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`   // For proxies or self-hosted endpoints
	Timeout    int    `yaml:"timeout"`    // Seconds
	MaxTokens  int    `yaml:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
	NoProxy    string `yaml:"no_proxy"`
}

// CacheConfig controls snapshot and overview caching
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"` // Disk cache location; memory-only when empty
	TTL     time.Duration `yaml:"ttl"`
}

// OutputConfig controls diagnostics and local artifacts
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose"`
	Archive       bool   `yaml:"archive"`     // Keep a copy of each delivered digest
	ArchiveDir    string `yaml:"archive_dir"` // Defaults to <data.dir>/archive when empty
	IncludeFooter bool   `yaml:"include_footer"`
}

// DefaultConfig returns the standard configuration. Flags, environment
// variables, and the config file override individual fields.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir: "data",
		},
		Sections: []SectionSpec{
			{Name: "Top Stories", Tiers: []int{int(TierVendor), int(TierDefault)}, MaxItems: 15},
			{Name: "Expert Feeds", Tiers: []int{int(TierSocial)}, MaxItems: 10},
			{Name: "Videos", Tiers: []int{int(TierVideo)}, MaxItems: 5},
		},
		Importance: ImportanceConfig{
			Social: []string{"twitter", "twitter.com", "x.com", "nitter"},
			Video:  []string{"youtube", "youtube.com", "youtu.be"},
			Vendor: []string{"openai", "anthropic", "deepmind", "google ai", "meta ai", "mistral", "hugging face"},
		},
		SMTP: SMTPConfig{
			Port:         587,
			Timeout:      30 * time.Second,
			DialInterval: 2 * time.Second,
			Strategies:   []string{"starttls", "implicit-tls", "opportunistic"},
		},
		LLM: LLMConfig{
			Timeout:   60,
			MaxTokens: 300,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     20 * time.Hour,
		},
		Output: OutputConfig{
			Archive:       true,
			IncludeFooter: true,
		},
	}
}

// Validate checks settings that would make a run meaningless. SMTP
// completeness is deliberately not checked here: digests can be built
// and previewed without a mail account.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir must not be empty")
	}
	if len(c.Sections) == 0 {
		return fmt.Errorf("at least one section must be configured")
	}
	for _, s := range c.Sections {
		if s.Name == "" {
			return fmt.Errorf("section with tiers %v has no name", s.Tiers)
		}
		if len(s.Tiers) == 0 {
			return fmt.Errorf("section %q accepts no tiers", s.Name)
		}
	}
	return nil
}

// ArchiveDir resolves the directory that archived digests are written to.
func (c *Config) ArchiveDir() string {
	if c.Output.ArchiveDir != "" {
		return c.Output.ArchiveDir
	}
	return filepath.Join(c.Data.Dir, "archive")
}
