package dto

import "time"

type EventListDTO struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	StartDateTime    time.Time `json:"start_date_time"`
	EndDateTime      time.Time `json:"end_date_time"`
	DurationMinutes  int       `json:"duration_minutes"`
	SchedulingStatus string    `json:"scheduling_status"`
	MeetingProvider  string    `json:"meeting_provider"`
	HostUserID       uint      `json:"host_user_id"`
	AttendeeIDs      []uint    `json:"attendee_ids"`
}
