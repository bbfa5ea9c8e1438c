package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// defaultBlockchainEndpoint is the blockchair-compatible API base.
const defaultBlockchainEndpoint = "https://api.blockchair.com"

// Thresholds for the suspicious-transaction heuristic: a young address
// with a large transaction count is the signature of pass-through
// wallets used to fan out incoming funds.
const (
	suspiciousTxCount = 1000
	suspiciousAgeDays = 30
)

// addressDashboard is the per-address slice of a blockchair dashboard
// response.
type addressDashboard struct {
	Address struct {
		Balance          int64  `json:"balance"`
		TransactionCount int    `json:"transaction_count"`
		FirstSeen        string `json:"first_seen_receiving"`
	} `json:"address"`
}

// blockchainResponse is the envelope of a blockchair dashboard answer,
// keyed by the queried address.
type blockchainResponse struct {
	Data map[string]addressDashboard `json:"data"`
}

// BlockchainSource queries on-chain activity for a cryptocurrency
// address: balance, transaction volume, and first-seen date, from a
// blockchair-style dashboard API.
type BlockchainSource struct {
	client   *Client
	endpoint string
	apiKey   string
	now      func() time.Time
}

// NewBlockchainSource creates a blockchain source.
func NewBlockchainSource(client *Client, s config.SourceSettings) *BlockchainSource {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = defaultBlockchainEndpoint
	}
	return &BlockchainSource{
		client:   client,
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   s.APIKey,
		now:      time.Now,
	}
}

// Name returns the registry name.
func (s *BlockchainSource) Name() string { return config.SourceBlockchain }

// Kinds returns the identifier kinds this source handles.
func (s *BlockchainSource) Kinds() []model.Kind { return []model.Kind{model.KindCryptoAddress} }

// Query fetches on-chain activity for the address.
func (s *BlockchainSource) Query(ctx context.Context, id model.Identifier) model.EvidenceItem {
	return guard(s.Name(), func() model.EvidenceItem {
		chain := chainOf(id.Raw)
		u := fmt.Sprintf("%s/%s/dashboards/address/%s", s.endpoint, chain, id.Raw)
		if s.apiKey != "" {
			u += "?key=" + s.apiKey
		}

		var resp blockchainResponse
		if err := s.client.GetJSON(ctx, u, nil, &resp); err != nil {
			return statusFromErr(ctx, s.Name(), err)
		}

		dashboard, ok := resp.Data[id.Raw]
		if !ok {
			// Blockchair lowercases ethereum addresses in its answer.
			dashboard, ok = resp.Data[strings.ToLower(id.Raw)]
		}
		if !ok {
			return model.ErrorItem(s.Name(), "address missing from dashboard response")
		}

		item := model.EvidenceItem{
			Source: s.Name(),
			Status: model.StatusOK,
			Fields: map[string]any{
				"chain":    chain,
				"balance":  dashboard.Address.Balance,
				"tx_count": dashboard.Address.TransactionCount,
			},
		}

		ageDays := -1
		if dashboard.Address.FirstSeen != "" {
			if firstSeen, err := time.Parse("2006-01-02 15:04:05", dashboard.Address.FirstSeen); err == nil {
				ageDays = int(s.now().Sub(firstSeen).Hours() / 24)
				item.Fields["first_seen"] = firstSeen.Format("2006-01-02")
			}
		}

		suspicious := dashboard.Address.TransactionCount > suspiciousTxCount &&
			ageDays >= 0 && ageDays < suspiciousAgeDays
		item.Fields[model.FieldSuspiciousTx] = suspicious
		if suspicious {
			item.RiskFactors = append(item.RiskFactors, "High-velocity transaction pattern")
		}
		return item
	})
}

// chainOf maps an address format to its blockchair chain slug.
func chainOf(addr string) string {
	if strings.HasPrefix(addr, "0x") {
		return "ethereum"
	}
	return "bitcoin"
}
