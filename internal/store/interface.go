package store

import (
	"context"
)

type Store interface {
	// Entities
	UpsertSession(ctx context.Context, session *Session) error
	UpsertBill(ctx context.Context, bill *Bill) error
	UpsertBillStage(ctx context.Context, stage *BillStage) error
	UpsertStageSitting(ctx context.Context, sitting *StageSitting) error
	UpsertAmendment(ctx context.Context, amendment *Amendment) error
	ReplaceAmendmentSponsors(ctx context.Context, amendmentID int, sponsors []*AmendmentSponsor) error
	UpsertMemberPartial(ctx context.Context, member *Member) error
	UpdateMemberProfile(ctx context.Context, member *Member) error

	// Sync log
	CreateSyncLog(ctx context.Context, log *SyncLog) error
	CompleteSyncLog(ctx context.Context, id, status, errorMessage, stats string) error
	GetRunningSyncLog(ctx context.Context) (*SyncLog, error)
	GetLastCompleted(ctx context.Context, syncType string) (*SyncLog, error)

	// Aggregates for status reporting
	CountBills(ctx context.Context) (int64, error)
	CountAmendments(ctx context.Context) (int64, error)
	CountMembers(ctx context.Context) (int64, error)

	// General
	Close() error
}
