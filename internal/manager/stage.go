package manager

// stage tracks where a repository pipeline currently is. Stages only
// ever advance; a failure at any point moves straight to stageFailed
// with no retry transition.
type stage int

const (
	stagePending stage = iota
	stageFetching
	stageMatching
	stageDownloading
	stageExtracting
	stageDone
	stageFailed
)

func (s stage) String() string {
	switch s {
	case stagePending:
		return "pending"
	case stageFetching:
		return "fetching"
	case stageMatching:
		return "matching"
	case stageDownloading:
		return "downloading"
	case stageExtracting:
		return "extracting"
	case stageDone:
		return "done"
	case stageFailed:
		return "failed"
	default:
		return "unknown"
	}
}
