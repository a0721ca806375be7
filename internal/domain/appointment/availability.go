package appointment

import (
	"fmt"
	"time"
)

type AvailabilityInput struct {
	ServiceID uint
	Date      time.Time
}

type Availability struct {
	Date        string   `json:"date"`
	ServiceID   uint     `json:"service_id"`
	ServiceName string   `json:"service"`
	Slots       []string `json:"available_slots"`
	Total       int      `json:"total_slots"`
}

// SlotStarts lists the hourly slot starts of date: OpenHour up to, but not
// including, CloseHour.
func (r Rules) SlotStarts(date time.Time) []time.Time {
	local := date.In(r.Location)

	out := make([]time.Time, 0, r.CloseHour-r.OpenHour)
	for h := r.OpenHour; h < r.CloseHour; h++ {
		out = append(out, time.Date(local.Year(), local.Month(), local.Day(), h, 0, 0, 0, r.Location))
	}
	return out
}

// FreeSlots returns the labels ("08:00".."17:00") of slots whose start does
// not coincide with any booked instant.
func (r Rules) FreeSlots(date time.Time, booked []time.Time) []string {
	taken := make(map[int64]struct{}, len(booked))
	for _, b := range booked {
		taken[b.Unix()] = struct{}{}
	}

	free := []string{}
	for _, start := range r.SlotStarts(date) {
		if _, ok := taken[start.Unix()]; ok {
			continue
		}
		free = append(free, fmt.Sprintf("%02d:00", start.Hour()))
	}
	return free
}
