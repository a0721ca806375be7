package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var statusDisplay = map[Status]string{
	StatusScheduled: "Agendado",
	StatusConfirmed: "Confirmado",
	StatusCancelled: "Cancelado",
	StatusCompleted: "Concluído",
}

func (s Status) Valid() bool {
	_, ok := statusDisplay[s]
	return ok
}

// Display is the label shown to shop staff.
func (s Status) Display() string {
	if d, ok := statusDisplay[s]; ok {
		return d
	}
	return string(s)
}

// IsActive reports whether an appointment in this status holds its slot.
func (s Status) IsActive() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// ActiveStatuses lists the statuses that count toward double-booking.
func ActiveStatuses() []string {
	return []string{string(StatusScheduled), string(StatusConfirmed)}
}

func InitialStatus() Status {
	return StatusScheduled
}
