package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	ActionAppointmentCreated   = "appointment_created"
	ActionAppointmentUpdated   = "appointment_updated"
	ActionAppointmentDeleted   = "appointment_deleted"
	ActionAppointmentConflict  = "appointment_conflict"
	ActionAppointmentConfirmed = "appointment_confirmed"
	ActionAppointmentCancelled = "appointment_cancelled"
	ActionAppointmentCompleted = "appointment_completed"

	ActionClientCreated  = "client_created"
	ActionClientUpdated  = "client_updated"
	ActionClientDeleted  = "client_deleted"
	ActionPetCreated     = "pet_created"
	ActionPetUpdated     = "pet_updated"
	ActionPetDeleted     = "pet_deleted"
	ActionPetPhoto       = "pet_photo_uploaded"
	ActionServiceCreated = "service_created"
	ActionServiceUpdated = "service_updated"
	ActionServiceDeleted = "service_deleted"
	ActionUserRegistered = "user_registered"

	EntityAppointment = "appointment"
	EntityClient      = "client"
	EntityPet         = "pet"
	EntityService     = "service"
	EntityUser        = "user"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Dispatcher writes audit events off the request path. A full queue drops
// the event: auditing never fails a request.
type Dispatcher struct {
	logger *Logger
	queue  chan Event
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.logger.Log(ctx, ev); err != nil {
			slog.Error("audit write failed", "action", ev.Action, "err", err)
		}
		cancel()
	}
}

// Dispatch is safe on a nil Dispatcher. Events sent after Close are
// dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		slog.Warn("audit dispatcher closed, dropping event", "action", ev.Action)
		return
	}

	select {
	case d.queue <- ev:
	default:
		slog.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close waits for queued events to be written.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
