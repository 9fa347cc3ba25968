package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"parliament-sync-service/internal/logger"
	"parliament-sync-service/internal/parliament"
	"parliament-sync-service/internal/store"
)

// run executes one sync pass to completion. Per-bill and per-member
// failures are recorded and skipped; anything outside those loops is
// fatal and marks the log failed before propagating.
func (m *Manager) run(ctx context.Context, task *Task) (err error) {
	stats := &Stats{}
	pending := make(map[int]struct{})

	defer func() {
		status := StatusCompleted
		var errMsg string
		if err != nil {
			status = StatusFailed
			errMsg = err.Error()
		}

		raw, _ := json.Marshal(stats)
		if logErr := m.store.CompleteSyncLog(ctx, task.LogID, status, errMsg, string(raw)); logErr != nil {
			logger.Log.Error("Failed to finalize sync log",
				zap.String("syncLogId", task.LogID),
				zap.Error(logErr),
			)
			if err == nil {
				err = fmt.Errorf("failed to finalize sync log: %w", logErr)
			}
			return
		}

		logger.Log.Info("Sync run finished",
			zap.String("syncLogId", task.LogID),
			zap.String("status", status),
			zap.Int("billsProcessed", stats.BillsProcessed),
			zap.Int("billsSkipped", stats.BillsSkipped),
			zap.Int("errors", len(stats.Errors)),
		)
	}()

	sessions := m.upstream.Sessions()
	for _, session := range sessions {
		row := &store.Session{
			ID:        session.ID,
			Name:      session.Name,
			StartDate: session.StartDate.Time,
			IsCurrent: session.EndDate == nil,
		}
		if session.EndDate != nil {
			row.EndDate = sql.NullTime{Time: session.EndDate.Time, Valid: true}
		}
		if err := m.store.UpsertSession(ctx, row); err != nil {
			return fmt.Errorf("session %d: upsert: %w", session.ID, err)
		}
		stats.Sessions++
	}

	pacing := m.cfg.Sync.GetBillPacing()

	for _, session := range sessions {
		bills, err := m.upstream.BillsBySession(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("session %d: list bills: %w", session.ID, err)
		}

		for _, bill := range bills {
			if task.Type == TypeIncremental && !bill.IsActive() {
				stats.BillsSkipped++
				continue
			}

			if perr := m.reconciler.ProcessBill(ctx, bill, session.ID, task.Type, stats, pending); perr != nil {
				stats.Errors = append(stats.Errors, perr.Error())
				logger.Log.Warn("Bill failed, continuing",
					zap.Int("billId", bill.BillID),
					zap.Error(perr),
				)
			} else {
				stats.BillsProcessed++
			}

			// Defense-in-depth throttle on top of the fetch client's
			// own rate limiting.
			time.Sleep(pacing)
		}
	}

	m.backfillMembers(ctx, pending, stats)

	return nil
}

// backfillMembers upgrades every member seen on a sponsor payload to a
// full profile. Individual failures are logged and skipped.
func (m *Manager) backfillMembers(ctx context.Context, pending map[int]struct{}, stats *Stats) {
	for memberID := range pending {
		profile, err := m.upstream.MemberByID(ctx, memberID)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("member %d: fetch profile: %v", memberID, err))
			logger.Log.Warn("Member profile fetch failed, skipping",
				zap.Int("memberId", memberID),
				zap.Error(err),
			)
			continue
		}
		if profile == nil {
			logger.Log.Debug("Member not found upstream", zap.Int("memberId", memberID))
			continue
		}

		member := &store.Member{
			ID:           memberID,
			Name:         profile.DisplayName,
			DisplayName:  profile.DisplayName,
			Party:        profile.Party,
			PartyColour:  nullString(profile.PartyColour),
			House:        parliament.HouseFromCode(profile.HouseCode),
			MemberFrom:   profile.MemberFrom,
			ThumbnailURL: nullString(profile.ThumbnailURL),
		}
		if err := m.store.UpdateMemberProfile(ctx, member); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("member %d: update profile: %v", memberID, err))
			logger.Log.Warn("Member profile update failed, skipping",
				zap.Int("memberId", memberID),
				zap.Error(err),
			)
			continue
		}
		stats.Members++
	}
}
