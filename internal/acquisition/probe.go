package acquisition

import "vidsum/internal/fileutil"

// Candidate extensions probed after each strategy, in priority order.
var (
	PrimaryExtensions  = []string{".wav", ".m4a", ".mp3"}
	FallbackExtensions = []string{".m4a", ".mp3", ".webm", ".wav", ".ogg"}
)

// ProbeCandidates returns the first base+ext, in exts order, for which exists
// reports true. Every candidate is checked before giving up.
func ProbeCandidates(base string, exts []string, exists func(string) bool) (string, bool) {
	if exists == nil {
		exists = fileutil.Exists
	}
	for _, ext := range exts {
		candidate := base + ext
		if exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
