package models

import "time"

// Well-known schedule statuses. Admins may store any other string through
// add-schedule and update-schedule.
const (
	ScheduleStatusWork      = "work"
	ScheduleStatusPending   = "pending"
	ScheduleStatusLeave     = "leave"
	ScheduleStatusCheckedIn = "checked-in"
)

// DateLayout is the storage and wire format of Schedule.Date
const DateLayout = "2006-01-02"

// Schedule is the status of one user on one calendar day.
// There is at most one row per (email, date).
type Schedule struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"size:255;not null;uniqueIndex:idx_schedules_email_date,priority:1"`
	Date      string `gorm:"size:10;not null;uniqueIndex:idx_schedules_email_date,priority:2;index"`
	Status    string `gorm:"size:32;not null;index"`
	TimeRange string `gorm:"column:time_range;size:32"`
	Reason    string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleView is a schedule row joined with the owner's profile image
type ScheduleView struct {
	Email     string
	Date      string
	Status    string
	TimeRange string
	Reason    string
	ImageURL  string
}
