package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// clusterResponse is the wallet-clustering API payload: the cluster the
// address belongs to with its attribution tags.
type clusterResponse struct {
	Cluster struct {
		Label string   `json:"label"`
		Size  int      `json:"size"`
		Tags  []string `json:"tags"`
	} `json:"cluster"`
}

// Attribution tags that drive scoring conditions.
const (
	tagMixer      = "mixer"
	tagDarkMarket = "dark_market"
)

// WalletClusterSource queries a wallet-clustering service for the
// attribution of a cryptocurrency address: which entity cluster it
// belongs to and whether that cluster is tagged as a mixing service or
// dark-market operator. The source has no public default backend; it is
// registered only when an endpoint is configured.
type WalletClusterSource struct {
	client   *Client
	endpoint string
	apiKey   string
}

// NewWalletClusterSource creates a wallet cluster source.
func NewWalletClusterSource(client *Client, s config.SourceSettings) *WalletClusterSource {
	return &WalletClusterSource{
		client:   client,
		endpoint: strings.TrimRight(s.Endpoint, "/"),
		apiKey:   s.APIKey,
	}
}

// Name returns the registry name.
func (s *WalletClusterSource) Name() string { return config.SourceWalletCluster }

// Kinds returns the identifier kinds this source handles.
func (s *WalletClusterSource) Kinds() []model.Kind { return []model.Kind{model.KindCryptoAddress} }

// Query fetches cluster attribution for the address.
func (s *WalletClusterSource) Query(ctx context.Context, id model.Identifier) model.EvidenceItem {
	return guard(s.Name(), func() model.EvidenceItem {
		u := fmt.Sprintf("%s?address=%s", s.endpoint, url.QueryEscape(id.Raw))
		var headers map[string]string
		if s.apiKey != "" {
			headers = map[string]string{"authorization": "Bearer " + s.apiKey}
		}

		var resp clusterResponse
		if err := s.client.GetJSON(ctx, u, headers, &resp); err != nil {
			return statusFromErr(ctx, s.Name(), err)
		}

		mixer := hasTag(resp.Cluster.Tags, tagMixer)
		darkMarket := hasTag(resp.Cluster.Tags, tagDarkMarket)

		item := model.EvidenceItem{
			Source: s.Name(),
			Status: model.StatusOK,
			Fields: map[string]any{
				"cluster_label":             resp.Cluster.Label,
				"cluster_size":              resp.Cluster.Size,
				model.FieldMixerLinked:      mixer,
				model.FieldDarkMarketLinked: darkMarket,
			},
		}
		if mixer {
			item.RiskFactors = append(item.RiskFactors, "Address linked to mixing service")
		}
		if darkMarket {
			item.RiskFactors = append(item.RiskFactors, "Cluster associated with dark markets")
		}
		return item
	})
}

// hasTag reports whether tags contains the tag, case-insensitively.
func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
