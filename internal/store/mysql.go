package store

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"

	"parliament-sync-service/internal/database"
)

type MySQLStore struct {
	db *database.Database
}

func NewMySQLStore(db *database.Database) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func (s *MySQLStore) UpsertSession(ctx context.Context, session *Session) error {
	query := `INSERT INTO sessions (id, name, start_date, end_date, is_current)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  name = VALUES(name),
			  start_date = VALUES(start_date),
			  end_date = VALUES(end_date),
			  is_current = VALUES(is_current)`

	_, err := s.db.DB.ExecContext(ctx, query,
		session.ID,
		session.Name,
		session.StartDate,
		session.EndDate,
		session.IsCurrent,
	)

	return err
}

// UpsertBill inserts or updates a bill. On update the session id only
// moves forward: a carry-over bill never regresses to an older session.
func (s *MySQLStore) UpsertBill(ctx context.Context, bill *Bill) error {
	query := `INSERT INTO bills (id, short_title, long_title, session_id, introduced_session_id, originating_house, current_house, is_withdrawn, is_defeated, is_act, last_update)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  short_title = VALUES(short_title),
			  long_title = VALUES(long_title),
			  session_id = IF(VALUES(session_id) > session_id, VALUES(session_id), session_id),
			  introduced_session_id = VALUES(introduced_session_id),
			  originating_house = VALUES(originating_house),
			  current_house = VALUES(current_house),
			  is_withdrawn = VALUES(is_withdrawn),
			  is_defeated = VALUES(is_defeated),
			  is_act = VALUES(is_act),
			  last_update = VALUES(last_update)`

	_, err := s.db.DB.ExecContext(ctx, query,
		bill.ID,
		bill.ShortTitle,
		bill.LongTitle,
		bill.SessionID,
		bill.IntroducedSessionID,
		bill.OriginatingHouse,
		bill.CurrentHouse,
		bill.IsWithdrawn,
		bill.IsDefeated,
		bill.IsAct,
		bill.LastUpdate,
	)

	return err
}

func (s *MySQLStore) UpsertBillStage(ctx context.Context, stage *BillStage) error {
	query := `INSERT INTO bill_stages (id, bill_id, stage_type_id, description, house, sort_order)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  bill_id = VALUES(bill_id),
			  stage_type_id = VALUES(stage_type_id),
			  description = VALUES(description),
			  house = VALUES(house),
			  sort_order = VALUES(sort_order)`

	_, err := s.db.DB.ExecContext(ctx, query,
		stage.ID,
		stage.BillID,
		stage.StageTypeID,
		stage.Description,
		stage.House,
		stage.SortOrder,
	)

	return err
}

func (s *MySQLStore) UpsertStageSitting(ctx context.Context, sitting *StageSitting) error {
	query := `INSERT INTO stage_sittings (id, stage_id, bill_id, date)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  stage_id = VALUES(stage_id),
			  bill_id = VALUES(bill_id),
			  date = VALUES(date)`

	_, err := s.db.DB.ExecContext(ctx, query,
		sitting.ID,
		sitting.StageID,
		sitting.BillID,
		sitting.Date,
	)

	return err
}

func (s *MySQLStore) UpsertAmendment(ctx context.Context, amendment *Amendment) error {
	query := `INSERT INTO amendments (id, stage_id, number, line, amendment_type, decision, decision_explanation, summary_text, marshalled_list_text, d_num)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  stage_id = VALUES(stage_id),
			  number = VALUES(number),
			  line = VALUES(line),
			  amendment_type = VALUES(amendment_type),
			  decision = VALUES(decision),
			  decision_explanation = VALUES(decision_explanation),
			  summary_text = VALUES(summary_text),
			  marshalled_list_text = VALUES(marshalled_list_text),
			  d_num = VALUES(d_num)`

	_, err := s.db.DB.ExecContext(ctx, query,
		amendment.ID,
		amendment.StageID,
		amendment.Number,
		amendment.Line,
		amendment.AmendmentType,
		amendment.Decision,
		amendment.DecisionExplanation,
		amendment.SummaryText,
		amendment.MarshalledListText,
		amendment.DNum,
	)

	return err
}

// ReplaceAmendmentSponsors wipes and recreates the sponsor set for an
// amendment. Upstream exposes no sponsor-level deltas, so the set is
// replaced wholesale on every re-sync.
func (s *MySQLStore) ReplaceAmendmentSponsors(ctx context.Context, amendmentID int, sponsors []*AmendmentSponsor) error {
	return s.db.ExecTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM amendment_sponsors WHERE amendment_id = ?`, amendmentID); err != nil {
			return err
		}

		query := `INSERT INTO amendment_sponsors (amendment_id, member_id, is_lead, sort_order)
				  VALUES (?, ?, ?, ?)`
		for _, sponsor := range sponsors {
			if _, err := tx.ExecContext(ctx, query,
				sponsor.AmendmentID,
				sponsor.MemberID,
				sponsor.IsLead,
				sponsor.SortOrder,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertMemberPartial inserts a minimally known member from a sponsor
// payload. An existing row is left untouched so a prior full-profile
// fetch is never clobbered by partial data.
func (s *MySQLStore) UpsertMemberPartial(ctx context.Context, member *Member) error {
	query := `INSERT INTO members (id, name, display_name, party, party_colour, house, member_from, thumbnail_url)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE id = id`

	_, err := s.db.DB.ExecContext(ctx, query,
		member.ID,
		member.Name,
		member.DisplayName,
		member.Party,
		member.PartyColour,
		member.House,
		member.MemberFrom,
		member.ThumbnailURL,
	)

	return err
}

// UpdateMemberProfile overwrites the enrichable fields from a full
// profile fetch. The canonical name from the sponsor payload is kept.
func (s *MySQLStore) UpdateMemberProfile(ctx context.Context, member *Member) error {
	query := `INSERT INTO members (id, name, display_name, party, party_colour, house, member_from, thumbnail_url)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  display_name = VALUES(display_name),
			  party = VALUES(party),
			  party_colour = VALUES(party_colour),
			  house = VALUES(house),
			  member_from = VALUES(member_from),
			  thumbnail_url = VALUES(thumbnail_url)`

	_, err := s.db.DB.ExecContext(ctx, query,
		member.ID,
		member.Name,
		member.DisplayName,
		member.Party,
		member.PartyColour,
		member.House,
		member.MemberFrom,
		member.ThumbnailURL,
	)

	return err
}

func (s *MySQLStore) CreateSyncLog(ctx context.Context, log *SyncLog) error {
	query := `INSERT INTO sync_logs (id, sync_type, status, started_at)
			  VALUES (?, ?, ?, ?)`

	_, err := s.db.DB.ExecContext(ctx, query,
		log.ID,
		log.SyncType,
		log.Status,
		log.StartedAt,
	)

	return err
}

func (s *MySQLStore) CompleteSyncLog(ctx context.Context, id, status, errorMessage, stats string) error {
	query := `UPDATE sync_logs SET status = ?, completed_at = NOW(), error_message = ?, stats = ? WHERE id = ?`

	errMsg := sql.NullString{String: errorMessage, Valid: errorMessage != ""}
	_, err := s.db.DB.ExecContext(ctx, query, status, errMsg, stats, id)
	return err
}

func (s *MySQLStore) GetRunningSyncLog(ctx context.Context) (*SyncLog, error) {
	query := `SELECT id, sync_type, status, started_at, completed_at, error_message, stats
			  FROM sync_logs WHERE status = 'running' ORDER BY started_at DESC LIMIT 1`

	return s.scanSyncLog(s.db.DB.QueryRowContext(ctx, query))
}

func (s *MySQLStore) GetLastCompleted(ctx context.Context, syncType string) (*SyncLog, error) {
	query := `SELECT id, sync_type, status, started_at, completed_at, error_message, stats
			  FROM sync_logs WHERE status = 'completed' AND sync_type = ?
			  ORDER BY completed_at DESC LIMIT 1`

	return s.scanSyncLog(s.db.DB.QueryRowContext(ctx, query, syncType))
}

func (s *MySQLStore) scanSyncLog(row *sql.Row) (*SyncLog, error) {
	var log SyncLog
	err := row.Scan(
		&log.ID,
		&log.SyncType,
		&log.Status,
		&log.StartedAt,
		&log.CompletedAt,
		&log.ErrorMessage,
		&log.Stats,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &log, nil
}

func (s *MySQLStore) CountBills(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM bills`)
}

func (s *MySQLStore) CountAmendments(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM amendments`)
}

func (s *MySQLStore) CountMembers(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM members`)
}

func (s *MySQLStore) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := s.db.DB.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
