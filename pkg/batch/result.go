// result.go — Typed per-record outcomes and the batch summary.
package batch

import (
	"fmt"
	"sort"

	"github.com/xob0t/CardStencil/pkg/card"
)

// Status is the outcome of one record.
type Status int

const (
	StatusRendered Status = iota
	StatusSkipped         // record unusable, no output written
	StatusFailed          // rendering or writing failed
)

func (s Status) String() string {
	switch s {
	case StatusRendered:
		return "rendered"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result reports what happened to one record.
type Result struct {
	Row    int
	ID     string
	Status Status
	Output string // written file, when rendered
	Photo  card.PhotoStatus
	Reason string
	Err    error
}

// Summary aggregates the results of a batch in row order.
type Summary struct {
	Results  []Result
	Rendered int
	Skipped  int
	Failed   int
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusRendered:
		s.Rendered++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

func (s *Summary) sort() {
	sort.SliceStable(s.Results, func(i, j int) bool { return s.Results[i].Row < s.Results[j].Row })
}

// Total is the number of records seen.
func (s *Summary) Total() int { return len(s.Results) }

func (s *Summary) String() string {
	return fmt.Sprintf("%d rendered, %d skipped, %d failed", s.Rendered, s.Skipped, s.Failed)
}
