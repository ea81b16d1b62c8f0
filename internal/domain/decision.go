package domain

import (
	"fmt"
	"time"
)

// Action enumerates what a reconciliation decided to do.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
)

// PublishDecision is produced fresh for every run and never stored.
type PublishDecision struct {
	Action  Action
	PostID  int64
	Article GeneratedArticle
	Reason  string
}

func CreateDecision(article GeneratedArticle) PublishDecision {
	return PublishDecision{Action: ActionCreate, Article: article}
}

func UpdateDecision(id int64, article GeneratedArticle) PublishDecision {
	return PublishDecision{Action: ActionUpdate, PostID: id, Article: article}
}

func SkipDecision(reason string) PublishDecision {
	return PublishDecision{Action: ActionSkip, Reason: reason}
}

func (d PublishDecision) String() string {
	switch d.Action {
	case ActionUpdate:
		return fmt.Sprintf("update(%d)", d.PostID)
	case ActionSkip:
		return fmt.Sprintf("skip(%s)", d.Reason)
	default:
		return string(d.Action)
	}
}

// RunOutcome summarizes one pipeline execution for logging and metrics.
type RunOutcome struct {
	RunID    string
	Topic    string
	Decision PublishDecision
	Record   *RemoteRecord
	Err      error
	Started  time.Time
	Finished time.Time
}

// Result labels the outcome: the decision action on success, "failed" otherwise.
func (o RunOutcome) Result() string {
	if o.Err != nil {
		return "failed"
	}
	return string(o.Decision.Action)
}
