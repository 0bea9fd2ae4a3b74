package testing

import "time"

// Status is the outcome of a single test function.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "PASS"
	case StatusFailed:
		return "FAIL"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// TestResult holds the outcome of one test function.
type TestResult struct {
	Name     string
	Status   Status
	Error    error
	Output   string // everything the test wrote with putInt and putString
	Duration time.Duration
}

// FileResult holds the outcome of every test in one file. CompileErr is set
// when the file could not be read or compiled, in which case Tests is empty.
type FileResult struct {
	Filename   string
	CompileErr error
	Tests      []*TestResult
}

// Summary aggregates the results of a test run.
type Summary struct {
	Files    []*FileResult
	Duration time.Duration

	Passed        int
	Failed        int
	Errors        int
	CompileErrors int
}

// ComputeTotals recounts the per-status totals from Files.
func (s *Summary) ComputeTotals() {
	s.Passed, s.Failed, s.Errors, s.CompileErrors = 0, 0, 0, 0
	for _, f := range s.Files {
		if f.CompileErr != nil {
			s.CompileErrors++
		}
		for _, t := range f.Tests {
			switch t.Status {
			case StatusPassed:
				s.Passed++
			case StatusFailed:
				s.Failed++
			case StatusError:
				s.Errors++
			}
		}
	}
}

// Success reports whether every file compiled and every test passed.
func (s *Summary) Success() bool {
	return s.Failed == 0 && s.Errors == 0 && s.CompileErrors == 0
}
