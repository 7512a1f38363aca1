package renamer

// Status is the final state of one file.
type Status string

const (
	StatusRenamed     Status = "renamed"
	StatusWouldRename Status = "would-rename" // Dry run only
	StatusSkipped     Status = "skipped"
	StatusError       Status = "error"
)

// Result describes what happened to one file.
type Result struct {
	File    string `json:"file"`
	NewName string `json:"new_name,omitempty"`
	Status  Status `json:"status"`
	DOI     string `json:"doi,omitempty"`
	Source  string `json:"source,omitempty"` // crossref, doi.org, heuristic
	Reason  string `json:"reason,omitempty"`
	Err     error  `json:"-"`
}

func skipped(res Result, err error) Result {
	res.Status = StatusSkipped
	res.Err = err
	res.Reason = err.Error()
	return res
}

func failed(res Result, err error) Result {
	res.Status = StatusError
	res.Err = err
	res.Reason = err.Error()
	return res
}

// Summary aggregates the results of a Run.
type Summary struct {
	Folder  string   `json:"folder"`
	Results []Result `json:"-"`
	Renamed int      `json:"renamed"`
	Skipped int      `json:"skipped"`
	Errors  int      `json:"errors"`
}

func (s *Summary) add(res Result) {
	s.Results = append(s.Results, res)
	switch res.Status {
	case StatusRenamed, StatusWouldRename:
		s.Renamed++
	case StatusSkipped:
		s.Skipped++
	case StatusError:
		s.Errors++
	}
}
