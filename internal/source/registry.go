package source

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// ErrDuplicateSource is returned when two sources register under the
// same name. Duplicate names would make per-source status lists
// ambiguous.
var ErrDuplicateSource = errors.New("duplicate evidence source name")

// Registry maps identifier kinds to the sources applicable to them. It
// is built once at startup from configuration and immutable afterwards;
// the aggregator only reads it.
//
// Design decision: A static registry rather than runtime discovery keeps
// the applicable-source set a reviewable configuration fact. The order
// sources are registered in is the order their items appear in every
// bundle, so registration order is part of the engine's deterministic
// output contract.
type Registry struct {
	byKind map[model.Kind][]Source
	names  map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKind: make(map[model.Kind][]Source),
		names:  make(map[string]bool),
	}
}

// Register adds a source for every kind it declares. Registration order
// is preserved per kind.
func (r *Registry) Register(s Source) error {
	if r.names[s.Name()] {
		return fmt.Errorf("%w: %q", ErrDuplicateSource, s.Name())
	}
	r.names[s.Name()] = true
	for _, kind := range s.Kinds() {
		r.byKind[kind] = append(r.byKind[kind], s)
	}
	return nil
}

// ForKind returns the registered sources for a kind in registration
// order. The returned slice must not be modified.
func (r *Registry) ForKind(kind model.Kind) []Source {
	return r.byKind[kind]
}

// Names returns the registered source names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the registry from configuration: every enabled source
// is instantiated with its settings and registered. Sources that require
// an endpoint and have none configured are skipped with a debug log
// rather than registered in a state where every query would fail.
func Build(cfg *config.File, client *Client, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	registry := NewRegistry()

	type candidate struct {
		name  string
		make  func(config.SourceSettings) Source
		needs bool // requires a configured endpoint
	}

	// Registration order here fixes bundle item order for every scan.
	candidates := []candidate{
		{config.SourceCarrier, func(s config.SourceSettings) Source { return NewCarrierSource(client, s) }, false},
		{config.SourceBreach, func(s config.SourceSettings) Source { return NewBreachSource(client, s) }, false},
		{config.SourceMailIntel, func(s config.SourceSettings) Source { return NewMailIntelSource(client, nil) }, false},
		{config.SourceDNSIntel, func(s config.SourceSettings) Source { return NewDNSIntelSource(nil) }, false},
		{config.SourceWHOIS, func(s config.SourceSettings) Source { return NewWHOISSource() }, false},
		{config.SourceInfrastructure, func(s config.SourceSettings) Source { return NewInfrastructureSource() }, false},
		{config.SourceReputation, func(s config.SourceSettings) Source { return NewReputationSource(nil, cfg.MaliciousList) }, false},
		{config.SourceBlockchain, func(s config.SourceSettings) Source { return NewBlockchainSource(client, s) }, false},
		{config.SourceWalletCluster, func(s config.SourceSettings) Source { return NewWalletClusterSource(client, s) }, true},
	}

	for _, c := range candidates {
		settings := cfg.Source(c.name)
		if !settings.IsEnabled() {
			logger.Debug("evidence source disabled by configuration", "source", c.name)
			continue
		}
		if c.needs && settings.Endpoint == "" {
			logger.Debug("evidence source skipped: no endpoint configured", "source", c.name)
			continue
		}
		if err := registry.Register(c.make(settings)); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
