// Package events provides domain events and an in-process dispatcher.
//
// Services emit events without knowing which handlers will process them.
// Events currently raised:
//   - review.graded: a user graded an item and its schedule changed
//   - reminder.due: the daily reminder job found items waiting for a user
package events
