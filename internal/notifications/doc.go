// Package notifications delivers session outcome notifications through
// ntfy. When no topic is configured the service degrades to a noop so
// callers never branch on notification availability.
package notifications
