package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeySourceKind               = "source.kind"
	KeySourcePath               = "source.path"
	KeySourceSpreadsheetID      = "source.spreadsheet_id"
	KeySourceServiceAccountPath = "source.service_account_path"
	KeySourceClientID           = "source.oauth.client_id"
	KeySourceClientSecret       = "source.oauth.client_secret"
	KeySourceRefreshToken       = "source.oauth.refresh_token"
	KeySheetLogbook             = "source.sheets.logbook"
	KeySheetRevenue             = "source.sheets.revenue"
	KeySheetCompensation        = "source.sheets.compensation"
	KeySheetClientMap           = "source.sheets.client_map"
	KeyCacheEnabled             = "cache.enabled"
	KeyCachePath                = "cache.path"
	KeyCacheTTL                 = "cache.ttl"
	KeyServerPort               = "server.port"
)

const (
	SourceWorkbook = "workbook"
	SourceCSV      = "csv"
	SourceSheets   = "sheets"
)

type Config struct {
	Source SourceConfig `mapstructure:"source" validate:"required"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Server ServerConfig `mapstructure:"server"`
}

type SourceConfig struct {
	Kind               string       `mapstructure:"kind" validate:"required,oneof=workbook csv sheets"`
	Path               string       `mapstructure:"path"`
	SpreadsheetID      string       `mapstructure:"spreadsheet_id"`
	ServiceAccountPath string       `mapstructure:"service_account_path"`
	OAuth              OAuthConfig  `mapstructure:"oauth"`
	Sheets             SheetsConfig `mapstructure:"sheets"`
}

// OAuthConfig is the refresh-token alternative to a service account.
type OAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RefreshToken string `mapstructure:"refresh_token"`
}

func (o OAuthConfig) complete() bool {
	return strings.TrimSpace(o.ClientID) != "" && strings.TrimSpace(o.ClientSecret) != "" && strings.TrimSpace(o.RefreshToken) != ""
}

// SheetsConfig names the four sheets (or CSV file stems) of a source.
type SheetsConfig struct {
	Logbook      string `mapstructure:"logbook" validate:"required"`
	Revenue      string `mapstructure:"revenue" validate:"required"`
	Compensation string `mapstructure:"compensation" validate:"required"`
	ClientMap    string `mapstructure:"client_map" validate:"required"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Path    string        `mapstructure:"path"`
	TTL     time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	out, _ := ExampleYAMLFor(SourceWorkbook)
	return out
}

// ExampleYAMLFor returns a configuration template whose source block is
// prefilled for kind. Placeholders in a sheets template must be replaced
// before the first fetch.
func ExampleYAMLFor(kind string) (string, error) {
	var source string
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case SourceWorkbook:
		source = `  kind: "workbook"
  # xlsx file holding the four sheets
  path: "./dashboard.xlsx"
`
	case SourceCSV:
		source = `  kind: "csv"
  # directory holding one <sheet>.csv file per sheet
  path: "./exports"
`
	case SourceSheets:
		source = `  kind: "sheets"
  # id from the spreadsheet URL: /spreadsheets/d/<id>/edit
  spreadsheet_id: "replace-with-spreadsheet-id"
  # use either a service account key or the oauth block below
  service_account_path: "./service-account.json"
  oauth:
    client_id: ""
    client_secret: ""
    refresh_token: ""
`
	default:
		return "", fmt.Errorf("unsupported source kind %q (expected workbook, csv or sheets)", kind)
	}

	return `# bizdash configuration
source:
` + source + `  sheets:
    logbook: "Logbook"
    revenue: "Clienti"
    compensation: "Compensi collaboratori"
    client_map: "Mappa"

cache:
  enabled: true
  path: "./bizdash-cache.db"
  ttl: "30m"

server:
  port: 8080
`, nil
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Source.Kind = strings.ToLower(strings.TrimSpace(cfg.Source.Kind))

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateSource(cfg.Source); err != nil {
		return nil, err
	}
	if cfg.Cache.Enabled && strings.TrimSpace(cfg.Cache.Path) == "" {
		return nil, fmt.Errorf("validation failed: cache.path is required when cache is enabled")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeySourceKind, SourceWorkbook)
	v.SetDefault(KeySourcePath, "./dashboard.xlsx")
	v.SetDefault(KeySheetLogbook, "Logbook")
	v.SetDefault(KeySheetRevenue, "Clienti")
	v.SetDefault(KeySheetCompensation, "Compensi collaboratori")
	v.SetDefault(KeySheetClientMap, "Mappa")
	v.SetDefault(KeyCacheEnabled, true)
	v.SetDefault(KeyCachePath, "./bizdash-cache.db")
	v.SetDefault(KeyCacheTTL, 30*time.Minute)
	v.SetDefault(KeyServerPort, 8080)
}

func validateSource(source SourceConfig) error {
	switch source.Kind {
	case SourceWorkbook, SourceCSV:
		if strings.TrimSpace(source.Path) == "" {
			return fmt.Errorf("validation failed: source.path is required for %s sources", source.Kind)
		}
	case SourceSheets:
		if strings.TrimSpace(source.SpreadsheetID) == "" {
			return fmt.Errorf("validation failed: source.spreadsheet_id is required for sheets sources")
		}
		hasServiceAccount := strings.TrimSpace(source.ServiceAccountPath) != ""
		if !hasServiceAccount && !source.OAuth.complete() {
			return fmt.Errorf("validation failed: sheets sources need source.service_account_path or source.oauth credentials")
		}
		if hasServiceAccount && source.OAuth.complete() {
			return fmt.Errorf("validation failed: configure either source.service_account_path or source.oauth, not both")
		}
	}

	names := map[string]string{
		"logbook":      source.Sheets.Logbook,
		"revenue":      source.Sheets.Revenue,
		"compensation": source.Sheets.Compensation,
		"client_map":   source.Sheets.ClientMap,
	}
	seen := make(map[string]string, len(names))
	for _, role := range []string{"logbook", "revenue", "compensation", "client_map"} {
		key := strings.ToLower(strings.TrimSpace(names[role]))
		if other, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: source.sheets.%s and source.sheets.%s both name %q", other, role, names[role])
		}
		seen[key] = role
	}
	return nil
}
