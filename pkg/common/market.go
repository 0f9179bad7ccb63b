package common

import (
	"time"

	"github.com/peter-kozarec/barsim/pkg/utility"
)

// Market announces that a new synchronized bar step is visible for all symbols.
// It carries no payload beyond its envelope; consumers query the bar stream.
type Market struct {
	Source      string              `json:"src,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}
