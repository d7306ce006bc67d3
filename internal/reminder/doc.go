// Package reminder runs the daily job that tells learners how many items are
// waiting for review. Profiles opt in with ReminderEnabled; users with nothing
// due are skipped.
package reminder
