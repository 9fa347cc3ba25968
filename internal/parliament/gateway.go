package parliament

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"parliament-sync-service/internal/client"
	"parliament-sync-service/internal/config"
)

// Gateway is the typed accessor layer over the two upstream APIs. All
// calls are routed through the shared rate-limited fetch client.
type Gateway struct {
	client     *client.Client
	billsURL   string
	membersURL string
	pageSize   int
}

func NewGateway(c *client.Client, cfg config.UpstreamConfig) *Gateway {
	return &Gateway{
		client:     c,
		billsURL:   cfg.BillsBaseURL,
		membersURL: cfg.MembersBaseURL,
		pageSize:   cfg.PageSize,
	}
}

// Sessions returns the hand-maintained session table.
func (g *Gateway) Sessions() []Session {
	sessions := make([]Session, len(knownSessions))
	copy(sessions, knownSessions)
	return sessions
}

type pagedBills struct {
	Items        []Bill `json:"items"`
	TotalResults int    `json:"totalResults"`
}

func (g *Gateway) BillsBySession(ctx context.Context, sessionID int) ([]Bill, error) {
	var bills []Bill
	for skip := 0; ; skip += g.pageSize {
		u := fmt.Sprintf("%s/Bills?Session=%d&Skip=%d&Take=%d", g.billsURL, sessionID, skip, g.pageSize)
		var page pagedBills
		if err := g.client.GetJSON(ctx, u, &page); err != nil {
			return nil, err
		}
		bills = append(bills, page.Items...)
		if len(page.Items) < g.pageSize || len(bills) >= page.TotalResults {
			break
		}
	}
	return bills, nil
}

type pagedStages struct {
	Items        []Stage `json:"items"`
	TotalResults int     `json:"totalResults"`
}

func (g *Gateway) StagesByBill(ctx context.Context, billID int) ([]Stage, error) {
	var stages []Stage
	for skip := 0; ; skip += g.pageSize {
		u := fmt.Sprintf("%s/Bills/%d/Stages?Skip=%d&Take=%d", g.billsURL, billID, skip, g.pageSize)
		var page pagedStages
		if err := g.client.GetJSON(ctx, u, &page); err != nil {
			return nil, err
		}
		stages = append(stages, page.Items...)
		if len(page.Items) < g.pageSize || len(stages) >= page.TotalResults {
			break
		}
	}
	return stages, nil
}

type pagedAmendments struct {
	Items        []Amendment `json:"items"`
	TotalResults int         `json:"totalResults"`
}

func (g *Gateway) AmendmentsByStage(ctx context.Context, billID, stageID int) ([]Amendment, error) {
	var amendments []Amendment
	for skip := 0; ; skip += g.pageSize {
		u := fmt.Sprintf("%s/Bills/%d/Stages/%d/Amendments?Skip=%d&Take=%d", g.billsURL, billID, stageID, skip, g.pageSize)
		var page pagedAmendments
		if err := g.client.GetJSON(ctx, u, &page); err != nil {
			return nil, err
		}
		amendments = append(amendments, page.Items...)
		if len(page.Items) < g.pageSize || len(amendments) >= page.TotalResults {
			break
		}
	}
	return amendments, nil
}

type memberEnvelope struct {
	Value memberValue `json:"value"`
}

type memberValue struct {
	ID            int    `json:"id"`
	NameDisplayAs string `json:"nameDisplayAs"`
	LatestParty   struct {
		Name             string `json:"name"`
		BackgroundColour string `json:"backgroundColour"`
	} `json:"latestParty"`
	LatestHouseMembership struct {
		House          int    `json:"house"`
		MembershipFrom string `json:"membershipFrom"`
	} `json:"latestHouseMembership"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

func (v memberValue) profile() *MemberProfile {
	return &MemberProfile{
		ID:           v.ID,
		DisplayName:  v.NameDisplayAs,
		Party:        v.LatestParty.Name,
		PartyColour:  v.LatestParty.BackgroundColour,
		HouseCode:    v.LatestHouseMembership.House,
		MemberFrom:   v.LatestHouseMembership.MembershipFrom,
		ThumbnailURL: v.ThumbnailURL,
	}
}

// MemberByID fetches one member's full profile. A 404 returns
// (nil, nil) so a missing member never aborts a run.
func (g *Gateway) MemberByID(ctx context.Context, memberID int) (*MemberProfile, error) {
	u := fmt.Sprintf("%s/Members/%d", g.membersURL, memberID)
	var env memberEnvelope
	if err := g.client.GetJSON(ctx, u, &env); err != nil {
		var httpErr *client.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return env.Value.profile(), nil
}

type pagedMembers struct {
	Items        []memberEnvelope `json:"items"`
	TotalResults int              `json:"totalResults"`
}

// SearchMembers looks members up by name substring.
func (g *Gateway) SearchMembers(ctx context.Context, name string, skip, take int) ([]*MemberProfile, error) {
	u := fmt.Sprintf("%s/Members/Search?Name=%s&skip=%d&take=%d", g.membersURL, url.QueryEscape(name), skip, take)
	var page pagedMembers
	if err := g.client.GetJSON(ctx, u, &page); err != nil {
		return nil, err
	}
	profiles := make([]*MemberProfile, 0, len(page.Items))
	for _, item := range page.Items {
		profiles = append(profiles, item.Value.profile())
	}
	return profiles, nil
}
