package ui

import (
	"github.com/rovshanmuradov/pnl-dashboard/internal/dashboard"
)

// Tea message types for UI communication

// RouterMsg represents navigation between screens
type RouterMsg struct {
	To Route
}

// SnapshotMsg carries the latest engine state
type SnapshotMsg struct {
	Snapshot dashboard.Snapshot
}

// BusMsg wraps anything delivered through the Bus so the app can re-arm
// the listener exactly once per delivery.
type BusMsg struct {
	Msg any
}

// ExportedMsg reports a finished export
type ExportedMsg struct {
	Path   string
	Format string
}

// ErrorMsg represents error conditions
type ErrorMsg struct {
	Error error
	Title string
}

// SuccessMsg represents success conditions
type SuccessMsg struct {
	Message string
	Title   string
}

// Route represents different screens in the application
type Route int

const (
	RouteDashboard Route = iota
	RouteLogs
)

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteDashboard:
		return "dashboard"
	case RouteLogs:
		return "logs"
	default:
		return "unknown"
	}
}
