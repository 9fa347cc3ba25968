package parliament

import (
	"fmt"
	"strings"
	"time"
)

// Houses of Parliament. Member profiles carry a numeric house code;
// everything else uses these names directly.
const (
	HouseCommons = "Commons"
	HouseLords   = "Lords"
)

// HouseFromCode maps the members API house code to a house name.
func HouseFromCode(code int) string {
	if code == 1 {
		return HouseCommons
	}
	return HouseLords
}

// Amendment decision outcomes as the upstream emits them. Stored
// verbatim; this list exists for reference and validation in tests.
const (
	DecisionAgreed                = "Agreed"
	DecisionAgreedOnDivision      = "AgreedOnDivision"
	DecisionDisagreed             = "Disagreed"
	DecisionNegativedOnDivision   = "NegativedOnDivision"
	DecisionNoDecision            = "NoDecision"
	DecisionNotCalled             = "NotCalled"
	DecisionNotMoved              = "NotMoved"
	DecisionNotSelected           = "NotSelected"
	DecisionStoodPart             = "StoodPart"
	DecisionWithdrawn             = "Withdrawn"
	DecisionWithdrawnBeforeDebate = "WithdrawnBeforeDebate"
)

// Date accepts the upstream's mixed date formats (RFC3339, bare
// date-time, bare date).
type Date struct {
	time.Time
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.RFC3339) + `"`), nil
}

// Session is a parliamentary sitting period. A nil EndDate means the
// session is ongoing.
type Session struct {
	ID        int
	Name      string
	StartDate Date
	EndDate   *Date
}

type Bill struct {
	BillID              int    `json:"billId"`
	ShortTitle          string `json:"shortTitle"`
	LongTitle           string `json:"longTitle"`
	OriginatingHouse    string `json:"originatingHouse"`
	CurrentHouse        string `json:"currentHouse"`
	IntroducedSessionID int    `json:"introducedSessionId"`
	IncludedSessionIDs  []int  `json:"includedSessionIds"`
	BillWithdrawn       *Date  `json:"billWithdrawn"`
	IsDefeated          bool   `json:"isDefeated"`
	IsAct               bool   `json:"isAct"`
	LastUpdate          Date   `json:"lastUpdate"`
}

func (b Bill) IsWithdrawn() bool {
	return b.BillWithdrawn != nil
}

// IsActive reports whether the bill is still in progress. Incremental
// sync only reconciles active bills.
func (b Bill) IsActive() bool {
	return !b.IsWithdrawn() && !b.IsDefeated && !b.IsAct
}

type Stage struct {
	ID          int       `json:"id"`
	StageID     int       `json:"stageId"`
	Description string    `json:"description"`
	House       string    `json:"house"`
	SortOrder   int       `json:"sortOrder"`
	Sittings    []Sitting `json:"stageSittings"`
}

type Sitting struct {
	ID      int   `json:"id"`
	StageID int   `json:"billStageId"`
	BillID  int   `json:"billId"`
	Date    *Date `json:"date"`
}

type Amendment struct {
	AmendmentID         int       `json:"amendmentId"`
	Number              int       `json:"amendmentNumber"`
	Line                int       `json:"amendmentLine"`
	AmendmentType       string    `json:"amendmentType"`
	Decision            string    `json:"decision"`
	DecisionExplanation string    `json:"decisionExplanation"`
	SummaryText         []string  `json:"summaryText"`
	MarshalledListText  string    `json:"marshalledListText"`
	DNum                string    `json:"dNum"`
	Sponsors            []Sponsor `json:"sponsors"`
}

// Sponsor order in the payload is authoritative: index 0 is the lead
// sponsor and the index becomes the stored sort order.
type Sponsor struct {
	MemberID   int    `json:"memberId"`
	Name       string `json:"name"`
	Party      string `json:"party"`
	House      string `json:"house"`
	MemberFrom string `json:"memberFrom"`
	PhotoURL   string `json:"photoUrl"`
}

type MemberProfile struct {
	ID           int
	DisplayName  string
	Party        string
	PartyColour  string
	HouseCode    int
	MemberFrom   string
	ThumbnailURL string
}
