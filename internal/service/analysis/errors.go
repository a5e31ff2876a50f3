package analysis

// ScanError indicates the root could not be walked.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "failed to scan " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// BuildError indicates graph assembly failed.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string {
	return "failed to build dependency graph: " + e.Err.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
