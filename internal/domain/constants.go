package domain

// Business validation constants
const (
	MinSlotDurationMinutes = 15
	MaxSlotDurationMinutes = 120
	MaxResourcesPerBooking = 20
)

// Reconciler defaults
const (
	DefaultReconcileBatchSize = 100
	DefaultReconcileSchedule  = "@every 1h"
)

// Time format constants
const (
	TimeFormat     = "15:04"      // HH:MM
	DateFormat     = "2006-01-02" // YYYY-MM-DD
	DateTimeFormat = "2006-01-02T15:04:05Z07:00"
)

// ActiveStatuses статусы, удерживающие емкость
var ActiveStatuses = []CommitmentStatus{
	StatusBooked,
}

// TerminalStatuses конечные статусы
var TerminalStatuses = []CommitmentStatus{
	StatusCompleted,
	StatusCancelled,
}
