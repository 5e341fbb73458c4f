package http

import (
	"time"

	"github.com/flashnodes/flashnodes/core"
)

// projectResponse is the wire form of a project. The api key is only
// handed to the project owner and to administrators, which is every caller
// that can reach a handler producing this shape.
type projectResponse struct {
	NodeID    string     `json:"node_id"`
	Owner     string     `json:"owner,omitempty"`
	Currency  string     `json:"currency"`
	Name      string     `json:"name"`
	Mode      string     `json:"mode"`
	Network   string     `json:"network"`
	Status    string     `json:"status"`
	IsPaid    bool       `json:"is_paid"`
	PaidUntil *time.Time `json:"paid_until"`
	CreatedOn time.Time  `json:"created_on"`
	APIKey    string     `json:"api_key"`
	Prefix    string     `json:"prefix"`
}

func newProjectResponse(p *core.Project, withOwner bool) projectResponse {
	resp := projectResponse{
		NodeID:    p.NodeID.String(),
		Currency:  p.CurrencySymbol,
		Name:      p.CurrencyName,
		Mode:      string(p.Mode),
		Network:   string(p.Network),
		Status:    string(p.Status),
		IsPaid:    p.IsPaid,
		PaidUntil: p.PaidUntil,
		CreatedOn: p.CreatedOn,
		APIKey:    p.APIKey.String(),
		Prefix:    p.Prefix,
	}
	if withOwner {
		resp.Owner = p.OwnerAddress
	}
	return resp
}

func newProjectList(projects []core.Project, withOwner bool) []projectResponse {
	out := make([]projectResponse, len(projects))
	for i := range projects {
		out[i] = newProjectResponse(&projects[i], withOwner)
	}
	return out
}

type currencyResponse struct {
	ID      int64  `json:"id"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	Details string `json:"details,omitempty"`
}

func newCurrencyResponse(c *core.Currency) currencyResponse {
	return currencyResponse{ID: c.ID, Symbol: c.Symbol, Name: c.FullName, Details: c.Details}
}

type identityResponse struct {
	Address   string    `json:"address"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func newIdentityResponse(i *core.Identity) identityResponse {
	return identityResponse{Address: i.Address, IsAdmin: i.IsAdmin, CreatedAt: i.CreatedAt}
}
