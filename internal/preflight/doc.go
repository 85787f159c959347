// Package preflight provides readiness checks for the external tools, the
// generation service, and the filesystem paths that vidsum depends on.
//
// The summarize command runs the dependency checks before starting a run so
// a missing yt-dlp or whisper binary is reported up front instead of after
// a download. The doctor command renders every Result as a table.
package preflight
