package demo

import "fmt"

// totalSteps is the number of reported steps in a full run.
const totalSteps = 6

// ProgressUpdate represents a progress event during a demo run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within the run
	Total   int    // Total steps in the run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	StartEmulator Phase = iota
	EnsureInstance
	EnsureDatabase
	SeedData
	LookupTrack
	QuerySingers
)

func (p Phase) String() string {
	switch p {
	case StartEmulator:
		return "start_emulator"
	case EnsureInstance:
		return "ensure_instance"
	case EnsureDatabase:
		return "ensure_database"
	case SeedData:
		return "seed_data"
	case LookupTrack:
		return "lookup_track"
	case QuerySingers:
		return "query_singers"
	default:
		return ""
	}
}

// Label returns the human-readable step name shown by progress displays.
func (p Phase) Label() string {
	switch p {
	case StartEmulator:
		return "Start emulator"
	case EnsureInstance:
		return "Ensure instance"
	case EnsureDatabase:
		return "Ensure database"
	case SeedData:
		return "Seed sample data"
	case LookupTrack:
		return "Look up track"
	case QuerySingers:
		return "Query singers"
	default:
		return ""
	}
}

// Phases lists every phase of a full run in execution order.
func Phases() []Phase {
	return []Phase{StartEmulator, EnsureInstance, EnsureDatabase, SeedData, LookupTrack, QuerySingers}
}

func startEmulatorUpdate(step, total int, addr string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StartEmulator,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Starting emulator at %s...", addr),
	}
}

func ensureInstanceUpdate(step, total int, instanceID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnsureInstance,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Ensuring instance %s...", instanceID),
	}
}

func ensureDatabaseUpdate(step, total int, databaseID string, statements int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnsureDatabase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Ensuring database %s (%d DDL statements)...", databaseID, statements),
	}
}

func seedUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedData,
		Step:    step,
		Total:   total,
		Message: "Inserting singer, album, and track in one transaction...",
	}
}

func lookupUpdate(step, total int, albumID string, trackID int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Looking up track (%s, %d)...", albumID, trackID),
	}
}

func queryUpdate(step, total int, fullName string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   QuerySingers,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Querying singers named %q...", fullName),
	}
}
