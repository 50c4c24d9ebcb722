package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/kantoor/config"
	ConfigFileName    = "kantoor.yml"
)

// Config holds all Kantoor configuration settings. Values come from the
// config file, overridden by KANTOOR_* environment variables; the source of
// each attribute is tracked for `kantoorctl configuration show`.
type Config struct {
	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// APIListLimitMax is the maximum page size for listing requests
	APIListLimitMax int `yaml:"api_list_limit_max" json:"api_list_limit_max"`

	// SessionTTLHours is the lifetime of login sessions in hours
	SessionTTLHours int `yaml:"session_ttl_hours" json:"session_ttl_hours"`

	// SecureCookies marks session and state cookies as Secure
	SecureCookies bool `yaml:"secure_cookies" json:"secure_cookies"`

	// FrontEndURL is where SSO logins land after the callback
	FrontEndURL string `yaml:"front_end_url" json:"front_end_url"`

	// SSOAutoProvision creates accounts for unknown Azure AD users on first login
	SSOAutoProvision bool `yaml:"sso_auto_provision" json:"sso_auto_provision"`

	// SSODefaultRole is the role granted to auto-provisioned accounts
	SSODefaultRole string `yaml:"sso_default_role" json:"sso_default_role"`

	// SyncDeleteOrphans soft-deletes synced assets that vanished from Intune
	SyncDeleteOrphans bool `yaml:"sync_delete_orphans" json:"sync_delete_orphans"`

	// AuditEnabled controls audit event persistence to the database
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// AzureTenantID is the Azure AD directory (tenant) ID
	AzureTenantID string `yaml:"azure_tenant_id" json:"azure_tenant_id"`

	// AzureClientID is the Azure AD application (client) ID
	AzureClientID string `yaml:"azure_client_id" json:"azure_client_id"`

	// AzureClientSecret comes from the environment only, never the file
	AzureClientSecret string `yaml:"-" json:"-"`

	// AzureRedirectURI is the registered OAuth callback URL
	AzureRedirectURI string `yaml:"azure_redirect_uri" json:"azure_redirect_uri"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		TrustedProxies:    []string{},
		APIListLimitMax:   100,
		SessionTTLHours:   168,
		SecureCookies:     false,
		FrontEndURL:       "",
		SSOAutoProvision:  true,
		SSODefaultRole:    "member",
		SyncDeleteOrphans: false,
		AuditEnabled:      true,
		sources:           make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*Config, error) {
	config := newDefault()

	// Initialize all sources as "default"
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	// Determine config file path
	configPath := os.Getenv("KANTOOR_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	// Try to load from config file
	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	// Override with environment variables
	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"trusted_proxies", "api_list_limit_max", "session_ttl_hours",
		"secure_cookies", "front_end_url", "sso_auto_provision",
		"sso_default_role", "sync_delete_orphans", "audit_enabled",
		"azure_tenant_id", "azure_client_id", "azure_client_secret",
		"azure_redirect_uri",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.APIListLimitMax != 0 {
		c.APIListLimitMax = file.APIListLimitMax
		c.sources["api_list_limit_max"] = "file"
	}
	if file.SessionTTLHours != 0 {
		c.SessionTTLHours = file.SessionTTLHours
		c.sources["session_ttl_hours"] = "file"
	}
	if file.SecureCookies {
		c.SecureCookies = true
		c.sources["secure_cookies"] = "file"
	}
	if file.FrontEndURL != "" {
		c.FrontEndURL = file.FrontEndURL
		c.sources["front_end_url"] = "file"
	}
	if file.SSODefaultRole != "" {
		c.SSODefaultRole = file.SSODefaultRole
		c.sources["sso_default_role"] = "file"
	}
	if file.SyncDeleteOrphans {
		c.SyncDeleteOrphans = true
		c.sources["sync_delete_orphans"] = "file"
	}
	if file.AzureTenantID != "" {
		c.AzureTenantID = file.AzureTenantID
		c.sources["azure_tenant_id"] = "file"
	}
	if file.AzureClientID != "" {
		c.AzureClientID = file.AzureClientID
		c.sources["azure_client_id"] = "file"
	}
	if file.AzureRedirectURI != "" {
		c.AzureRedirectURI = file.AzureRedirectURI
		c.sources["azure_redirect_uri"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("KANTOOR_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("KANTOOR_API_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.APIListLimitMax = i
			c.sources["api_list_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("KANTOOR_SESSION_TTL_HOURS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.SessionTTLHours = i
			c.sources["session_ttl_hours"] = "environment"
		}
	}
	if val := os.Getenv("KANTOOR_SECURE_COOKIES"); val != "" {
		c.SecureCookies = val == "true" || val == "1"
		c.sources["secure_cookies"] = "environment"
	}
	if val := os.Getenv("KANTOOR_FRONT_END_URL"); val != "" {
		c.FrontEndURL = val
		c.sources["front_end_url"] = "environment"
	}
	if val := os.Getenv("KANTOOR_SSO_AUTO_PROVISION"); val != "" {
		c.SSOAutoProvision = val == "true" || val == "1"
		c.sources["sso_auto_provision"] = "environment"
	}
	if val := os.Getenv("KANTOOR_SSO_DEFAULT_ROLE"); val != "" {
		c.SSODefaultRole = val
		c.sources["sso_default_role"] = "environment"
	}
	if val := os.Getenv("KANTOOR_SYNC_DELETE_ORPHANS"); val != "" {
		c.SyncDeleteOrphans = val == "true" || val == "1"
		c.sources["sync_delete_orphans"] = "environment"
	}
	if val := os.Getenv("KANTOOR_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = "environment"
	}
	if val := os.Getenv("KANTOOR_AZURE_TENANT_ID"); val != "" {
		c.AzureTenantID = val
		c.sources["azure_tenant_id"] = "environment"
	}
	if val := os.Getenv("KANTOOR_AZURE_CLIENT_ID"); val != "" {
		c.AzureClientID = val
		c.sources["azure_client_id"] = "environment"
	}
	if val := os.Getenv("KANTOOR_AZURE_CLIENT_SECRET"); val != "" {
		c.AzureClientSecret = val
		c.sources["azure_client_secret"] = "environment"
	}
	if val := os.Getenv("KANTOOR_AZURE_REDIRECT_URI"); val != "" {
		c.AzureRedirectURI = val
		c.sources["azure_redirect_uri"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// SessionTTL returns the session lifetime as a duration
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// AzureConfigured reports whether the Azure AD integration is fully set up.
// Both SSO login and device sync require it.
func (c *Config) AzureConfigured() bool {
	return c.AzureTenantID != "" && c.AzureClientID != "" && c.AzureClientSecret != ""
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate trusted proxies are valid CIDR ranges
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	if c.APIListLimitMax < 1 {
		return fmt.Errorf("api_list_limit_max must be positive, got %d", c.APIListLimitMax)
	}
	if c.SessionTTLHours < 1 {
		return fmt.Errorf("session_ttl_hours must be positive, got %d", c.SessionTTLHours)
	}

	// Azure settings are all-or-nothing
	azureSet := c.AzureTenantID != "" || c.AzureClientID != "" || c.AzureClientSecret != ""
	if azureSet && !c.AzureConfigured() {
		return fmt.Errorf("incomplete Azure AD configuration: azure_tenant_id, azure_client_id and azure_client_secret must all be set")
	}
	if c.AzureConfigured() && c.AzureRedirectURI == "" {
		return fmt.Errorf("azure_redirect_uri is required when Azure AD is configured")
	}

	return nil
}

// Attributes returns all configuration attributes with their values and
// sources. Secrets are masked.
func (c *Config) Attributes() []Attribute {
	secret := ""
	if c.AzureClientSecret != "" {
		secret = "********"
	}
	return []Attribute{
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "api_list_limit_max", Value: strconv.Itoa(c.APIListLimitMax), Source: c.Source("api_list_limit_max")},
		{Name: "session_ttl_hours", Value: strconv.Itoa(c.SessionTTLHours), Source: c.Source("session_ttl_hours")},
		{Name: "secure_cookies", Value: strconv.FormatBool(c.SecureCookies), Source: c.Source("secure_cookies")},
		{Name: "front_end_url", Value: c.FrontEndURL, Source: c.Source("front_end_url")},
		{Name: "sso_auto_provision", Value: strconv.FormatBool(c.SSOAutoProvision), Source: c.Source("sso_auto_provision")},
		{Name: "sso_default_role", Value: c.SSODefaultRole, Source: c.Source("sso_default_role")},
		{Name: "sync_delete_orphans", Value: strconv.FormatBool(c.SyncDeleteOrphans), Source: c.Source("sync_delete_orphans")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "azure_tenant_id", Value: c.AzureTenantID, Source: c.Source("azure_tenant_id")},
		{Name: "azure_client_id", Value: c.AzureClientID, Source: c.Source("azure_client_id")},
		{Name: "azure_client_secret", Value: secret, Source: c.Source("azure_client_secret")},
		{Name: "azure_redirect_uri", Value: c.AzureRedirectURI, Source: c.Source("azure_redirect_uri")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-25s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-25s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-25s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
