package sync

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeFull        Type = "full"
	TypeIncremental Type = "incremental"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeFull, TypeIncremental:
		return Type(s), nil
	case "":
		return TypeIncremental, nil
	default:
		return "", fmt.Errorf("unknown sync type %q", s)
	}
}

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Stats accumulates over a run and is serialized into the SyncLog row
// when the run reaches a terminal state.
type Stats struct {
	Sessions       int      `json:"sessions"`
	BillsProcessed int      `json:"billsProcessed"`
	BillsSkipped   int      `json:"billsSkipped"`
	Stages         int      `json:"stages"`
	Sittings       int      `json:"sittings"`
	Amendments     int      `json:"amendments"`
	Members        int      `json:"members"`
	Errors         []string `json:"errors,omitempty"`
}

// Task is the handle for a launched sync run. Kept around so a future
// cancellation path has something to hang off.
type Task struct {
	LogID     string
	Type      Type
	StartedAt time.Time
	done      chan struct{}
}

// Done is closed when the run has reached a terminal state.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// StatusReport is what the status endpoint returns.
type StatusReport struct {
	Running             bool       `json:"running"`
	LastFullSync        *time.Time `json:"lastFullSync"`
	LastIncrementalSync *time.Time `json:"lastIncrementalSync"`
	BillCount           int64      `json:"billCount"`
	AmendmentCount      int64      `json:"amendmentCount"`
	MemberCount         int64      `json:"memberCount"`
}
