package domain

import "time"

type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionUpdate Action = "update"
)

type ItemResult struct {
	Action Action
	Key    string
	Fields []string `json:",omitempty"`
	Error  string   `json:",omitempty"`
	Err    error    `json:"-"`
}

func (r ItemResult) Succeeded() bool {
	return r.Err == nil
}

type ApplyReport struct {
	System  SystemID
	Items   []ItemResult
	Aborted bool
}

func (r *ApplyReport) Record(action Action, key string, fields []string, err error) {
	item := ItemResult{Action: action, Key: key, Fields: fields, Err: err}
	if err != nil {
		item.Error = err.Error()
	}
	r.Items = append(r.Items, item)
}

func (r ApplyReport) Failures() []ItemResult {
	failures := make([]ItemResult, 0)
	for _, item := range r.Items {
		if !item.Succeeded() {
			failures = append(failures, item)
		}
	}
	return failures
}

func (r ApplyReport) HasFailures() bool {
	return r.Aborted || len(r.Failures()) > 0
}

func (r ApplyReport) Count(action Action) (succeeded int, failed int) {
	for _, item := range r.Items {
		if item.Action != action {
			continue
		}
		if item.Succeeded() {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

type RunOutcome string

const (
	RunOutcomeSuccess RunOutcome = "success"
	RunOutcomePartial RunOutcome = "partial"
	RunOutcomeFailed  RunOutcome = "failed"
	RunOutcomeDryRun  RunOutcome = "dry_run"
)

type RunSummary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    RunOutcome
	Added      int
	Removed    int
	Updated    int
	Failed     int
	Error      string
}
