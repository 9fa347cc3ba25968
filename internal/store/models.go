package store

import (
	"database/sql"
	"time"
)

type Session struct {
	ID        int          `db:"id"`
	Name      string       `db:"name"`
	StartDate time.Time    `db:"start_date"`
	EndDate   sql.NullTime `db:"end_date"`
	IsCurrent bool         `db:"is_current"`
}

// Bill's SessionID only ever moves forward: a carry-over bill tracks
// its latest active session and never regresses to an older one.
// Carry-over itself is derived (IntroducedSessionID != SessionID),
// not stored.
type Bill struct {
	ID                  int       `db:"id"`
	ShortTitle          string    `db:"short_title"`
	LongTitle           string    `db:"long_title"`
	SessionID           int       `db:"session_id"`
	IntroducedSessionID int       `db:"introduced_session_id"`
	OriginatingHouse    string    `db:"originating_house"`
	CurrentHouse        string    `db:"current_house"`
	IsWithdrawn         bool      `db:"is_withdrawn"`
	IsDefeated          bool      `db:"is_defeated"`
	IsAct               bool      `db:"is_act"`
	LastUpdate          time.Time `db:"last_update"`
}

type BillStage struct {
	ID          int    `db:"id"`
	BillID      int    `db:"bill_id"`
	StageTypeID int    `db:"stage_type_id"`
	Description string `db:"description"`
	House       string `db:"house"`
	SortOrder   int    `db:"sort_order"`
}

type StageSitting struct {
	ID      int          `db:"id"`
	StageID int          `db:"stage_id"`
	BillID  int          `db:"bill_id"`
	Date    sql.NullTime `db:"date"`
}

type Amendment struct {
	ID                  int            `db:"id"`
	StageID             int            `db:"stage_id"`
	Number              int            `db:"number"`
	Line                int            `db:"line"`
	AmendmentType       string         `db:"amendment_type"`
	Decision            string         `db:"decision"`
	DecisionExplanation sql.NullString `db:"decision_explanation"`
	SummaryText         sql.NullString `db:"summary_text"`
	MarshalledListText  sql.NullString `db:"marshalled_list_text"`
	DNum                sql.NullString `db:"d_num"`
}

type AmendmentSponsor struct {
	AmendmentID int  `db:"amendment_id"`
	MemberID    int  `db:"member_id"`
	IsLead      bool `db:"is_lead"`
	SortOrder   int  `db:"sort_order"`
}

type Member struct {
	ID           int            `db:"id"`
	Name         string         `db:"name"`
	DisplayName  string         `db:"display_name"`
	Party        string         `db:"party"`
	PartyColour  sql.NullString `db:"party_colour"`
	House        string         `db:"house"`
	MemberFrom   string         `db:"member_from"`
	ThumbnailURL sql.NullString `db:"thumbnail_url"`
}

type SyncLog struct {
	ID           string         `db:"id"`
	SyncType     string         `db:"sync_type"`
	Status       string         `db:"status"`
	StartedAt    time.Time      `db:"started_at"`
	CompletedAt  sql.NullTime   `db:"completed_at"`
	ErrorMessage sql.NullString `db:"error_message"`
	Stats        sql.NullString `db:"stats"`
}
