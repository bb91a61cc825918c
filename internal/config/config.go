package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Environment variable names, kept identical to the deployment templates so
// the same parameter set provisions every stage.
const (
	EnvKeycloakBaseURL = "BASE_API_REST_KEYCLOAK"
	EnvKeycloakRealm   = "REALM_KEYCLOAK"

	EnvSessionTable = "DYNAMO_BD_SESSION"

	EnvSearchUser          = "USER_ES_CITIES"
	EnvSearchPassword      = "PASSWORD_ES_CITIES"
	EnvReportingUser       = "REPORTING_SERVICES_USER"
	EnvReportingPassword   = "REPORTING_SERVICES_PASSWORD"
	EnvFileStorageUser     = "FILE_STORAGE_USER"
	EnvFileStoragePassword = "FILE_STORAGE_PASSWORD"

	EnvFrontOfficeV1       = "LEGACY_FRONT_OFFICE1"
	EnvFrontOfficeV2       = "LEGACY_FRONT_OFFICE2"
	EnvReportingWSDL       = "REPORTING_SERVICES_WSDL"
	EnvERPWSDL             = "ERP_SERVICES_WSDL"
	EnvBillPayment         = "BILLPAYMENT_SERVICE"
	EnvCollectionPayments  = "COLLECTION_PAYMENTS_WSDL"
	EnvLegacyEndpointsFile = "LEGACY_ENDPOINTS_FILE"
)

const (
	// DefaultSessionIndex is the secondary index mapping principals to their
	// stored credential record.
	DefaultSessionIndex = "keycloakIdIndex"

	// DefaultSessionIndexAttribute is the indexed attribute holding the
	// principal identifier.
	DefaultSessionIndexAttribute = "keycloakId"

	// DefaultHTTPTimeout bounds every outbound call. Failed calls are not
	// retried by this subsystem; retry policy belongs to the caller.
	DefaultHTTPTimeout = 30 * time.Second
)

// ServiceCredentials is a shared service-account pair sourced from the
// process environment. Empty values are never fatal; whether downstream
// backends accept empty credentials is up to them.
type ServiceCredentials struct {
	User     string
	Password string
}

// Config is the process-wide configuration, read once at start and read-only
// afterwards.
type Config struct {
	KeycloakBaseURL string
	KeycloakRealm   string

	SessionTable          string
	SessionIndex          string
	SessionIndexAttribute string

	HTTPTimeout time.Duration

	Search      ServiceCredentials
	Reporting   ServiceCredentials
	FileStorage ServiceCredentials

	// LegacyEndpoints maps a backend version to its endpoint URL.
	LegacyEndpoints map[string]string
}

// Load reads the configuration from the environment. An optional YAML file
// referenced by LEGACY_ENDPOINTS_FILE overrides the legacy endpoint map.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	cfg := &Config{
		KeycloakBaseURL:       v.GetString(EnvKeycloakBaseURL),
		KeycloakRealm:         v.GetString(EnvKeycloakRealm),
		SessionTable:          v.GetString(EnvSessionTable),
		SessionIndex:          DefaultSessionIndex,
		SessionIndexAttribute: DefaultSessionIndexAttribute,
		HTTPTimeout:           DefaultHTTPTimeout,
		Search: ServiceCredentials{
			User:     v.GetString(EnvSearchUser),
			Password: v.GetString(EnvSearchPassword),
		},
		Reporting: ServiceCredentials{
			User:     v.GetString(EnvReportingUser),
			Password: v.GetString(EnvReportingPassword),
		},
		FileStorage: ServiceCredentials{
			User:     v.GetString(EnvFileStorageUser),
			Password: v.GetString(EnvFileStoragePassword),
		},
		LegacyEndpoints: map[string]string{
			"1":                   v.GetString(EnvFrontOfficeV1),
			"2":                   v.GetString(EnvFrontOfficeV2),
			"ReportExecution2005": v.GetString(EnvReportingWSDL),
			"erp":                 v.GetString(EnvERPWSDL),
			"billpayment":         v.GetString(EnvBillPayment),
			"general_billpayment": v.GetString(EnvBillPayment),
			"collection_payments": v.GetString(EnvCollectionPayments),
		},
	}

	if path := v.GetString(EnvLegacyEndpointsFile); path != "" {
		if err := cfg.loadEndpointsFile(path); err != nil {
			return nil, fmt.Errorf("loading legacy endpoints file: %w", err)
		}
	}

	return cfg, nil
}

type endpointsFile struct {
	Endpoints map[string]string `yaml:"endpoints"`
}

func (c *Config) loadEndpointsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f endpointsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	for version, endpoint := range f.Endpoints {
		c.LegacyEndpoints[version] = endpoint
	}
	return nil
}

// Validate checks the settings required on the request path. Service-account
// credentials are deliberately not validated here.
func (c *Config) Validate() error {
	var err error
	if c.KeycloakBaseURL == "" {
		err = multierr.Append(err, fmt.Errorf("%s is required", EnvKeycloakBaseURL))
	}
	if c.KeycloakRealm == "" {
		err = multierr.Append(err, fmt.Errorf("%s is required", EnvKeycloakRealm))
	}
	if c.SessionTable == "" {
		err = multierr.Append(err, fmt.Errorf("%s is required", EnvSessionTable))
	}
	return err
}
