package domain

// BatchResult is the outcome of generating a quiz for one URL in a bulk run.
type BatchResult struct {
	URL    string
	QuizID int64
	Err    error
}

// Succeeded reports whether a quiz was stored for the URL.
func (r BatchResult) Succeeded() bool {
	return r.Err == nil
}
