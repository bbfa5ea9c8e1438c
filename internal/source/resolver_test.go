package source

import (
	"context"
	"errors"
	"net"
)

// errNXDomain stands in for an NXDOMAIN answer in tests.
var errNXDomain = errors.New("no such host")

// fakeResolver serves canned DNS answers keyed by name. Missing keys
// answer NXDOMAIN.
type fakeResolver struct {
	hosts map[string][]string
	mx    map[string][]*net.MX
	ns    map[string][]*net.NS
	txt   map[string][]string
}

func (f *fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if addrs, ok := f.hosts[host]; ok {
		return addrs, nil
	}
	return nil, errNXDomain
}

func (f *fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if recs, ok := f.mx[name]; ok {
		return recs, nil
	}
	return nil, errNXDomain
}

func (f *fakeResolver) LookupNS(_ context.Context, name string) ([]*net.NS, error) {
	if recs, ok := f.ns[name]; ok {
		return recs, nil
	}
	return nil, errNXDomain
}

func (f *fakeResolver) LookupTXT(_ context.Context, name string) ([]string, error) {
	if recs, ok := f.txt[name]; ok {
		return recs, nil
	}
	return nil, errNXDomain
}
