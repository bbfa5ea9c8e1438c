package source

import (
	"context"
	"net"
)

// Resolver is the subset of net.Resolver the DNS-backed sources use.
// Injecting it lets tests supply canned answers without touching the
// network.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// defaultResolver returns r, or the system resolver when r is nil.
func defaultResolver(r Resolver) Resolver {
	if r != nil {
		return r
	}
	return net.DefaultResolver
}
