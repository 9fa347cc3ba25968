package sync

import (
	"context"
	"database/sql"
	"fmt"
	stdsync "sync"
	"time"

	"parliament-sync-service/internal/parliament"
	"parliament-sync-service/internal/store"
)

// memStore is an in-memory store.Store that mirrors the MySQL
// implementation's upsert semantics.
type memStore struct {
	mu         stdsync.Mutex
	sessions   map[int]*store.Session
	bills      map[int]*store.Bill
	stages     map[int]*store.BillStage
	sittings   map[int]*store.StageSitting
	amendments map[int]*store.Amendment
	sponsors   map[int][]*store.AmendmentSponsor
	members    map[int]*store.Member
	syncLogs   map[string]*store.SyncLog
}

func newMemStore() *memStore {
	return &memStore{
		sessions:   map[int]*store.Session{},
		bills:      map[int]*store.Bill{},
		stages:     map[int]*store.BillStage{},
		sittings:   map[int]*store.StageSitting{},
		amendments: map[int]*store.Amendment{},
		sponsors:   map[int][]*store.AmendmentSponsor{},
		members:    map[int]*store.Member{},
		syncLogs:   map[string]*store.SyncLog{},
	}
}

func (m *memStore) UpsertSession(_ context.Context, s *store.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memStore) UpsertBill(_ context.Context, b *store.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	if existing, ok := m.bills[b.ID]; ok && existing.SessionID > cp.SessionID {
		// Session id never regresses.
		cp.SessionID = existing.SessionID
	}
	m.bills[b.ID] = &cp
	return nil
}

func (m *memStore) UpsertBillStage(_ context.Context, s *store.BillStage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.stages[s.ID] = &cp
	return nil
}

func (m *memStore) UpsertStageSitting(_ context.Context, s *store.StageSitting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sittings[s.ID] = &cp
	return nil
}

func (m *memStore) UpsertAmendment(_ context.Context, a *store.Amendment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.amendments[a.ID] = &cp
	return nil
}

func (m *memStore) ReplaceAmendmentSponsors(_ context.Context, amendmentID int, sponsors []*store.AmendmentSponsor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]*store.AmendmentSponsor, 0, len(sponsors))
	for _, s := range sponsors {
		cp := *s
		rows = append(rows, &cp)
	}
	m.sponsors[amendmentID] = rows
	return nil
}

func (m *memStore) UpsertMemberPartial(_ context.Context, member *store.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[member.ID]; ok {
		return nil
	}
	cp := *member
	m.members[member.ID] = &cp
	return nil
}

func (m *memStore) UpdateMemberProfile(_ context.Context, member *store.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.members[member.ID]; ok {
		existing.DisplayName = member.DisplayName
		existing.Party = member.Party
		existing.PartyColour = member.PartyColour
		existing.House = member.House
		existing.MemberFrom = member.MemberFrom
		existing.ThumbnailURL = member.ThumbnailURL
		return nil
	}
	cp := *member
	m.members[member.ID] = &cp
	return nil
}

func (m *memStore) CreateSyncLog(_ context.Context, log *store.SyncLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *log
	m.syncLogs[log.ID] = &cp
	return nil
}

func (m *memStore) CompleteSyncLog(_ context.Context, id, status, errorMessage, stats string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	log, ok := m.syncLogs[id]
	if !ok {
		return fmt.Errorf("sync log %s not found", id)
	}
	log.Status = status
	log.CompletedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	log.ErrorMessage = sql.NullString{String: errorMessage, Valid: errorMessage != ""}
	log.Stats = sql.NullString{String: stats, Valid: stats != ""}
	return nil
}

func (m *memStore) GetRunningSyncLog(_ context.Context) (*store.SyncLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, log := range m.syncLogs {
		if log.Status == StatusRunning {
			cp := *log
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetLastCompleted(_ context.Context, syncType string) (*store.SyncLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *store.SyncLog
	for _, log := range m.syncLogs {
		if log.Status != StatusCompleted || log.SyncType != syncType {
			continue
		}
		if latest == nil || log.CompletedAt.Time.After(latest.CompletedAt.Time) {
			latest = log
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (m *memStore) CountBills(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.bills)), nil
}

func (m *memStore) CountAmendments(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.amendments)), nil
}

func (m *memStore) CountMembers(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.members)), nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) sponsorRows(amendmentID int) []*store.AmendmentSponsor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sponsors[amendmentID]
}

func (m *memStore) terminalLog(id string) *store.SyncLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	log := m.syncLogs[id]
	if log == nil {
		return nil
	}
	cp := *log
	return &cp
}

// fakeUpstream is a canned Upstream.
type fakeUpstream struct {
	sessions   []parliament.Session
	bills      map[int][]parliament.Bill      // session id → bills
	stages     map[int][]parliament.Stage     // bill id → stages
	amendments map[int][]parliament.Amendment // stage id → amendments
	members    map[int]*parliament.MemberProfile
	stagesErr  map[int]error // bill id → error
	billsErr   error
	membersErr map[int]error
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		bills:      map[int][]parliament.Bill{},
		stages:     map[int][]parliament.Stage{},
		amendments: map[int][]parliament.Amendment{},
		members:    map[int]*parliament.MemberProfile{},
		stagesErr:  map[int]error{},
		membersErr: map[int]error{},
	}
}

func (f *fakeUpstream) Sessions() []parliament.Session {
	return f.sessions
}

func (f *fakeUpstream) BillsBySession(_ context.Context, sessionID int) ([]parliament.Bill, error) {
	if f.billsErr != nil {
		return nil, f.billsErr
	}
	return f.bills[sessionID], nil
}

func (f *fakeUpstream) StagesByBill(_ context.Context, billID int) ([]parliament.Stage, error) {
	if err := f.stagesErr[billID]; err != nil {
		return nil, err
	}
	return f.stages[billID], nil
}

func (f *fakeUpstream) AmendmentsByStage(_ context.Context, _, stageID int) ([]parliament.Amendment, error) {
	return f.amendments[stageID], nil
}

func (f *fakeUpstream) MemberByID(_ context.Context, memberID int) (*parliament.MemberProfile, error) {
	if err := f.membersErr[memberID]; err != nil {
		return nil, err
	}
	return f.members[memberID], nil
}
