// Package config resolves CLI options against environment fallbacks
// and decodes the Google service-account credential file.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/HiDoYa/finance-pipeline/internal/errs"
)

// Environment fallbacks for options not given as flags.
const (
	envCredentials   = "FINPIPE_GOOGLE_CREDENTIALS"
	envSpreadsheetID = "FINPIPE_SPREADSHEET_ID"
)

// Options holds the resolved settings of one sync run. Zero-valued
// fields are filled in by Resolve from environment variables and
// defaults.
type Options struct {
	DownloadPath   string
	FilterPath     string
	CategoriesPath string
	CredentialPath string
	SpreadsheetID  string
	CSVOutPath     string
	DryRun         bool
}

// Resolve fills unset fields from the environment and defaults, and
// validates that everything a run needs is present. FilterPath and
// CSVOutPath stay optional.
func (o *Options) Resolve() error {
	const op = "config.Resolve"

	if o.DownloadPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errs.E(errs.KindConfig, op, err)
		}
		o.DownloadPath = filepath.Join(home, ".mintapi")
	}
	if o.CredentialPath == "" {
		o.CredentialPath = os.Getenv(envCredentials)
	}
	if o.SpreadsheetID == "" {
		o.SpreadsheetID = os.Getenv(envSpreadsheetID)
	}

	if o.CategoriesPath == "" {
		return errs.Errorf(errs.KindConfig, op, "categories path is required")
	}
	if o.CredentialPath == "" {
		return errs.Errorf(errs.KindConfig, op, "credential path is required (flag or %s)", envCredentials)
	}
	if o.SpreadsheetID == "" {
		return errs.Errorf(errs.KindConfig, op, "spreadsheet ID is required (flag or %s)", envSpreadsheetID)
	}
	return nil
}

// ServiceAccountKey mirrors the Google service-account JSON key file.
// Every field must be present and non-blank.
type ServiceAccountKey struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// LoadServiceAccountKey reads and validates the key file, returning
// both the decoded struct and the raw bytes (the OAuth layer wants the
// raw JSON).
func LoadServiceAccountKey(path string) (*ServiceAccountKey, []byte, error) {
	const op = "config.LoadServiceAccountKey"

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errs.E(errs.KindIO, op, err)
	}

	var key ServiceAccountKey
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&key); err != nil {
		return nil, nil, errs.E(errs.KindConfig, op, err)
	}

	for name, value := range map[string]string{
		"type":                        key.Type,
		"project_id":                  key.ProjectID,
		"private_key_id":              key.PrivateKeyID,
		"private_key":                 key.PrivateKey,
		"client_email":                key.ClientEmail,
		"client_id":                   key.ClientID,
		"auth_uri":                    key.AuthURI,
		"token_uri":                   key.TokenURI,
		"auth_provider_x509_cert_url": key.AuthProviderX509CertURL,
		"client_x509_cert_url":        key.ClientX509CertURL,
	} {
		if value == "" {
			return nil, nil, errs.Errorf(errs.KindConfig, op, "credential field %s is missing or blank", name)
		}
	}

	return &key, raw, nil
}
