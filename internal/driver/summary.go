package driver

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// State is the lifecycle position of a report.
type State int

const (
	StatePending State = iota
	StateOpened
	StateParsing
	StateEmitting
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateOpened:
		return "opened"
	case StateParsing:
		return "parsing"
	case StateEmitting:
		return "emitting"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ReportResult is the outcome of one report. Items already handed to the
// sink before a failure stay counted in Emitted.
type ReportResult struct {
	Report Report
	State  State
	Err    error
	// Emitted counts coverage files or findings handed to the sink.
	Emitted int
	// Unresolved counts items whose file is not part of the project.
	Unresolved int
	// Dropped counts structured entries rejected for missing fields.
	Dropped int
	// Unparsed counts text lines that did not follow the tool's format.
	Unparsed int
}

func (r ReportResult) fail(err error) ReportResult {
	r.State = StateFailed
	r.Err = err
	return r
}

// Summary describes a whole run.
type Summary struct {
	RunID   string
	Reports []ReportResult
}

func (s Summary) Failed() int {
	n := 0
	for _, r := range s.Reports {
		if r.State == StateFailed {
			n++
		}
	}
	return n
}

func (s Summary) Emitted() int {
	n := 0
	for _, r := range s.Reports {
		n += r.Emitted
	}
	return n
}

func (s Summary) Unresolved() int {
	n := 0
	for _, r := range s.Reports {
		n += r.Unresolved
	}
	return n
}

// WriteText renders the summary as an aligned table.
func (s Summary) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Run:\t%s\n", s.RunID)
	fmt.Fprintln(tw, "TOOL\tREPORT\tSTATE\tEMITTED\tUNRESOLVED\tDROPPED\tUNPARSED")
	for _, r := range s.Reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.Report.Kind.ToolName(), r.Report.Path, r.State, r.Emitted, r.Unresolved, r.Dropped, r.Unparsed)
	}
	fmt.Fprintf(tw, "Reports: %d, failed: %d, emitted: %d, unresolved: %d\n",
		len(s.Reports), s.Failed(), s.Emitted(), s.Unresolved())
	return tw.Flush()
}
