// Package srs implements the SuperMemo-2 spaced repetition scheduler.
//
// Everything here is pure: functions take the current scheduling state, a
// grade and the caller's notion of "today", and return new values. Nothing
// reads a clock, touches storage or logs, so the package is safe for any
// number of concurrent callers. Serializing updates to the same item is the
// caller's job.
package srs
