// Package notifications publishes run outcomes to ntfy.
//
// A topic URL in [notifications] enables delivery; without one NewService
// returns a no-op so callers never branch on configuration.
package notifications
