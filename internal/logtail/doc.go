// Package logtail turns log files into panel records.
//
// # Overview
//
// Two pieces live here:
//
//  1. ParseLine: one line of text to a logstore.Record
//  2. Follower: tail -F for one file, feeding a Sink (usually the store)
//
// # Backfill
//
// Follower.Backfill scans the file once and keeps only the last maxLines in
// a circular buffer, so memory is O(maxLines) regardless of file size. A
// missing file is not an error.
//
// # Line Format
//
// ParseLine recognizes the common shape
//
//	2025-10-08 21:01:05 INFO [encoder] – starting encoding
//
// picking out the timestamp (space or T separated, optional fraction and
// zone), the level (DEBUG, INFO, WARN, ERROR and a few aliases, optionally
// bracketed, matched as a whole word), an optional [component] that becomes
// the record category, and a leading separator. Lines that do not match are kept whole as Info. The
// category defaults to the file name without its extension.
//
// # Following
//
// A Follower remembers a byte offset. ReadNew reads complete lines after it
// and leaves a trailing partial line for the next call. If the file shrinks
// the offset resets to zero; if it is removed or renamed the follower waits
// for the new file. Run drives ReadNew from fsnotify events on the file's
// directory until its context is cancelled. Watch errors go to the onError
// callback rather than stopping the loop.
package logtail
