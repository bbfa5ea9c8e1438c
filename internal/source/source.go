package source

import (
	"context"

	"github.com/ghoztwoods/shadowintel/internal/model"
)

// Source is the capability interface every evidence source implements.
//
// Implementations must catch all internal failures and return an item
// with StatusError rather than panicking or leaking errors, and must
// respect the deadline on ctx, returning StatusUnavailable when it
// expires. Retries, if any, are the source's own concern; the aggregator
// never retries.
type Source interface {
	// Name returns the source's registry name (e.g. "breach").
	Name() string

	// Kinds returns the identifier kinds this source can handle.
	Kinds() []model.Kind

	// Query collects evidence about the identifier. The returned item's
	// Source field must equal Name().
	Query(ctx context.Context, id model.Identifier) model.EvidenceItem
}

// guard converts a panic inside a source into a StatusError item. Every
// concrete Query runs its body through this so the aggregator's
// never-crash contract holds even against programming errors in a source.
func guard(name string, fn func() model.EvidenceItem) (item model.EvidenceItem) {
	defer func() {
		if r := recover(); r != nil {
			item = model.ErrorItem(name, "internal source failure")
		}
	}()
	return fn()
}

// statusFromErr maps a query failure to the right evidence status:
// context expiry means the time budget ran out (Unavailable), anything
// else is a source failure (Error).
func statusFromErr(ctx context.Context, name string, err error) model.EvidenceItem {
	if ctx.Err() != nil {
		return model.UnavailableItem(name)
	}
	return model.ErrorItem(name, err.Error())
}
