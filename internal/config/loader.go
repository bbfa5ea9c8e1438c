package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name, searched for
// in the current directory and then the user's home directory.
const DefaultConfigFile = ".shadowintel"

// Evidence source names. The sources section of the configuration file
// and the registry builder both key off these.
const (
	SourceCarrier        = "carrier"
	SourceBreach         = "breach"
	SourceMailIntel      = "mail_intel"
	SourceDNSIntel       = "dns_intel"
	SourceWHOIS          = "whois"
	SourceInfrastructure = "infrastructure"
	SourceReputation     = "reputation"
	SourceBlockchain     = "blockchain"
	SourceWalletCluster  = "wallet_cluster"
)

// knownSources is the set of evidence sources the registry can build.
var knownSources = map[string]bool{
	SourceCarrier:        true,
	SourceBreach:         true,
	SourceMailIntel:      true,
	SourceDNSIntel:       true,
	SourceWHOIS:          true,
	SourceInfrastructure: true,
	SourceReputation:     true,
	SourceBlockchain:     true,
	SourceWalletCluster:  true,
}

// SourceSettings configures one evidence source.
type SourceSettings struct {
	// Enabled controls whether the source is registered. A nil value
	// means enabled; the pointer distinguishes "absent" from an
	// explicit false.
	Enabled *bool `yaml:"enabled"`

	// Endpoint overrides the source's default API endpoint. Sources
	// with an offline fallback (carrier) work without one.
	Endpoint string `yaml:"endpoint"`

	// APIKey authenticates against the backing service.
	APIKey string `yaml:"api_key"`
}

// IsEnabled reports whether the source should be registered.
func (s SourceSettings) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// GeoSettings configures the movement analyzer.
type GeoSettings struct {
	// EpsilonKm is the clustering radius in kilometers.
	EpsilonKm float64 `yaml:"epsilon_km"`

	// MinPoints is the density threshold for cluster membership.
	MinPoints int `yaml:"min_points"`

	// AnomalySigma is the standard-deviation multiple beyond which a
	// travel speed is flagged.
	AnomalySigma float64 `yaml:"anomaly_sigma"`
}

// File is the on-disk configuration: the weight table, geo parameters,
// per-source settings, and the known-malicious list for the reputation
// source.
type File struct {
	// Weights is the ordered risk-weight table.
	Weights WeightTable `yaml:"weights"`

	// Geo holds movement analyzer parameters.
	Geo GeoSettings `yaml:"geo"`

	// Sources maps source names to their settings. Absent sources run
	// with defaults.
	Sources map[string]SourceSettings `yaml:"sources"`

	// MaliciousList contains identifiers known to be involved in scam
	// activity, consulted by the reputation source.
	MaliciousList []string `yaml:"malicious_list"`
}

// DefaultFile returns the built-in configuration: default weight table,
// default geo parameters, every source enabled with no API keys.
func DefaultFile() *File {
	return &File{
		Weights: DefaultWeightTable(),
		Geo: GeoSettings{
			EpsilonKm:    DefaultGeoEpsilonKm,
			MinPoints:    DefaultGeoMinPoints,
			AnomalySigma: DefaultGeoAnomalySigma,
		},
		Sources: make(map[string]SourceSettings),
	}
}

// Validate checks the file for unknown names and out-of-range values.
func (f *File) Validate() error {
	if err := f.Weights.Validate(); err != nil {
		return err
	}
	if f.Geo.EpsilonKm <= 0 {
		return ErrInvalidGeoEpsilon
	}
	if f.Geo.MinPoints < 2 {
		return ErrInvalidGeoMinPoints
	}
	if f.Geo.AnomalySigma <= 0 {
		return ErrInvalidGeoSigma
	}
	for name := range f.Sources {
		if !knownSources[name] {
			return fmt.Errorf("%w: %q", ErrUnknownSource, name)
		}
	}
	return nil
}

// Source returns the settings for the named source, zero-valued when the
// file has no entry for it.
func (f *File) Source(name string) SourceSettings {
	if f.Sources == nil {
		return SourceSettings{}
	}
	return f.Sources[name]
}

// LoadFile loads a configuration file, filling absent sections with the
// documented defaults. Missing files return ErrConfigNotFound so callers
// can distinguish "no file" from a broken one.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	f := DefaultFile()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	// An empty weights section means "use the defaults", stated here
	// rather than discovered downstream.
	if len(f.Weights.Entries) == 0 {
		f.Weights = DefaultWeightTable()
	}
	if f.Sources == nil {
		f.Sources = make(map[string]SourceSettings)
	}

	return f, nil
}

// FindConfigFile resolves the configuration file path: an explicit path
// wins, then DefaultConfigFile in the current directory, then in the home
// directory. Returns empty when nothing is found.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
