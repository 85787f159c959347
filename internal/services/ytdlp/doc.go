// Package ytdlp wraps the yt-dlp command line tool for audio extraction.
//
// It builds the argument lists for the two extraction strategies (a direct
// canonical WAV extraction and a best-available-format fallback), runs
// yt-dlp with line-oriented output scanning, and parses download progress
// lines into ProgressUpdate values.
package ytdlp
