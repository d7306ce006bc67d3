// Package review is the application service around the SM-2 scheduler.
// It resolves "today" in the configured timezone, joins the shared item
// catalog with a user's review states, and persists graded states inside
// a transaction.
package review
