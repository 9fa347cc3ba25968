package sync

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"parliament-sync-service/internal/parliament"
	"parliament-sync-service/internal/store"
)

// Upstream is the slice of the gateway the sync pipeline consumes.
type Upstream interface {
	Sessions() []parliament.Session
	BillsBySession(ctx context.Context, sessionID int) ([]parliament.Bill, error)
	StagesByBill(ctx context.Context, billID int) ([]parliament.Stage, error)
	AmendmentsByStage(ctx context.Context, billID, stageID int) ([]parliament.Amendment, error)
	MemberByID(ctx context.Context, memberID int) (*parliament.MemberProfile, error)
}

// Reconciler applies one upstream bill record to the store: the bill
// itself, its stages, sittings (full sync only), amendments, sponsor
// sets and minimal member rows.
type Reconciler struct {
	store    store.Store
	upstream Upstream
}

func NewReconciler(st store.Store, upstream Upstream) *Reconciler {
	return &Reconciler{store: st, upstream: upstream}
}

// ProcessBill reconciles a single bill against the session currently
// being iterated. Member ids seen on sponsors are added to pending for
// the later profile backfill pass.
func (r *Reconciler) ProcessBill(ctx context.Context, bill parliament.Bill, sessionID int, syncType Type, stats *Stats, pending map[int]struct{}) error {
	authoritative := authoritativeSession(bill, sessionID)

	row := &store.Bill{
		ID:                  bill.BillID,
		ShortTitle:          bill.ShortTitle,
		LongTitle:           bill.LongTitle,
		SessionID:           authoritative,
		IntroducedSessionID: bill.IntroducedSessionID,
		OriginatingHouse:    bill.OriginatingHouse,
		CurrentHouse:        bill.CurrentHouse,
		IsWithdrawn:         bill.IsWithdrawn(),
		IsDefeated:          bill.IsDefeated,
		IsAct:               bill.IsAct,
		LastUpdate:          bill.LastUpdate.Time,
	}
	if err := r.store.UpsertBill(ctx, row); err != nil {
		return fmt.Errorf("bill %d: upsert: %w", bill.BillID, err)
	}

	stages, err := r.upstream.StagesByBill(ctx, bill.BillID)
	if err != nil {
		return fmt.Errorf("bill %d: fetch stages: %w", bill.BillID, err)
	}

	for _, stage := range stages {
		if err := r.processStage(ctx, bill.BillID, stage, syncType, stats, pending); err != nil {
			return fmt.Errorf("bill %d: %w", bill.BillID, err)
		}
	}

	return nil
}

// authoritativeSession is the max of the bill's included session ids,
// or the iterated session when the list is absent. This is what moves
// a carry-over bill forward.
func authoritativeSession(bill parliament.Bill, sessionID int) int {
	if len(bill.IncludedSessionIDs) == 0 {
		return sessionID
	}
	max := bill.IncludedSessionIDs[0]
	for _, id := range bill.IncludedSessionIDs[1:] {
		if id > max {
			max = id
		}
	}
	return max
}

func (r *Reconciler) processStage(ctx context.Context, billID int, stage parliament.Stage, syncType Type, stats *Stats, pending map[int]struct{}) error {
	// Stage ids are globally unique, not scoped to the bill.
	if err := r.store.UpsertBillStage(ctx, &store.BillStage{
		ID:          stage.ID,
		BillID:      billID,
		StageTypeID: stage.StageID,
		Description: stage.Description,
		House:       stage.House,
		SortOrder:   stage.SortOrder,
	}); err != nil {
		return fmt.Errorf("stage %d: upsert: %w", stage.ID, err)
	}
	stats.Stages++

	// Sittings are a full-sync-only concern: incremental runs leave
	// whatever a prior full sync created.
	if syncType == TypeFull {
		for _, sitting := range stage.Sittings {
			row := &store.StageSitting{
				ID:      sitting.ID,
				StageID: stage.ID,
				BillID:  billID,
			}
			if sitting.Date != nil {
				row.Date = sql.NullTime{Time: sitting.Date.Time, Valid: true}
			}
			if err := r.store.UpsertStageSitting(ctx, row); err != nil {
				return fmt.Errorf("stage %d: upsert sitting %d: %w", stage.ID, sitting.ID, err)
			}
			stats.Sittings++
		}
	}

	amendments, err := r.upstream.AmendmentsByStage(ctx, billID, stage.ID)
	if err != nil {
		return fmt.Errorf("stage %d: fetch amendments: %w", stage.ID, err)
	}

	for _, amendment := range amendments {
		if err := r.processAmendment(ctx, stage.ID, amendment, stats, pending); err != nil {
			return fmt.Errorf("stage %d: %w", stage.ID, err)
		}
	}

	return nil
}

func (r *Reconciler) processAmendment(ctx context.Context, stageID int, amendment parliament.Amendment, stats *Stats, pending map[int]struct{}) error {
	row := &store.Amendment{
		ID:                  amendment.AmendmentID,
		StageID:             stageID,
		Number:              amendment.Number,
		Line:                amendment.Line,
		AmendmentType:       amendment.AmendmentType,
		Decision:            amendment.Decision,
		DecisionExplanation: nullString(amendment.DecisionExplanation),
		SummaryText:         nullString(strings.Join(amendment.SummaryText, "\n")),
		MarshalledListText:  nullString(amendment.MarshalledListText),
		DNum:                nullString(amendment.DNum),
	}
	if err := r.store.UpsertAmendment(ctx, row); err != nil {
		return fmt.Errorf("amendment %d: upsert: %w", amendment.AmendmentID, err)
	}
	stats.Amendments++

	sponsors := make([]*store.AmendmentSponsor, 0, len(amendment.Sponsors))
	for i, sponsor := range amendment.Sponsors {
		sponsors = append(sponsors, &store.AmendmentSponsor{
			AmendmentID: amendment.AmendmentID,
			MemberID:    sponsor.MemberID,
			IsLead:      i == 0,
			SortOrder:   i,
		})

		if err := r.store.UpsertMemberPartial(ctx, &store.Member{
			ID:           sponsor.MemberID,
			Name:         orUnknown(sponsor.Name),
			DisplayName:  orUnknown(sponsor.Name),
			Party:        orUnknown(sponsor.Party),
			House:        sponsor.House,
			MemberFrom:   sponsor.MemberFrom,
			ThumbnailURL: nullString(sponsor.PhotoURL),
		}); err != nil {
			return fmt.Errorf("amendment %d: upsert member %d: %w", amendment.AmendmentID, sponsor.MemberID, err)
		}
		pending[sponsor.MemberID] = struct{}{}
	}

	if err := r.store.ReplaceAmendmentSponsors(ctx, amendment.AmendmentID, sponsors); err != nil {
		return fmt.Errorf("amendment %d: replace sponsors: %w", amendment.AmendmentID, err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
