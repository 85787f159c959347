// Package progress renders terminal feedback for the two long waits in a
// run: the yt-dlp download and the generation request. Both indicators are
// disabled when the target writer is not a terminal, so piped output and
// log files stay clean.
package progress
