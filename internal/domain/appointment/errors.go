package appointment

import "github.com/BruksfildServices01/petshop-scheduler/internal/httperr"

var (
	ErrDoubleBooking = httperr.ErrBusiness("double_booking")
	ErrOutOfHours    = httperr.ErrBusiness("out_of_hours")
	ErrPastDate      = httperr.ErrBusiness("past_date")
	ErrClosedDay     = httperr.ErrBusiness("closed_day")

	ErrInvalidDate   = httperr.ErrBusiness("invalid_date")
	ErrInvalidStatus = httperr.ErrBusiness("invalid_status")

	ErrAppointmentNotFound = httperr.ErrBusiness("appointment_not_found")
	ErrPetNotFound         = httperr.ErrBusiness("pet_not_found")
	ErrServiceNotFound     = httperr.ErrBusiness("service_not_found")
)
