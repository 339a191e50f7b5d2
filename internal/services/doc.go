// Package services defines the shared error taxonomy for commflag
// subsystems. Sentinel errors classify failures so the session can map
// them to job outcomes without inspecting error strings.
package services
