package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-shift-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LeaveRequest is the input of RequestLeave. Empty TimeRange selects
// DefaultTimeRange for newly created rows.
type LeaveRequest struct {
	Email     string
	Date      string
	TimeRange string
	Reason    string
}

// ScheduleInput is the input of AddSchedule
type ScheduleInput struct {
	Email     string
	Date      string
	TimeRange string
	Status    string
}

// ScheduleChange identifies a row by (Email, OldDate, OldTimeRange) and
// carries its new values
type ScheduleChange struct {
	Email        string
	OldDate      string
	OldTimeRange string
	Date         string
	TimeRange    string
	Status       string
}

// ScheduleOptions configures the check-in policy
type ScheduleOptions struct {
	// EnforceCheckInWindow rejects check-ins outside the row's time range
	EnforceCheckInWindow bool
	// Location is the timezone of the wall clock; nil means time.Local
	Location *time.Location
	// Now returns the current time; nil means time.Now
	Now func() time.Time
}

// ScheduleService owns the per-(email, date) schedule rows and their status
// transitions. Guarded transitions are single conditional UPDATE statements;
// an unaffected row is the signal of a stale or invalid transition.
type ScheduleService interface {
	// FetchByEmail returns a user's rows ordered by date
	FetchByEmail(ctx context.Context, email string) ([]models.Schedule, error)
	// FetchPending returns every pending row ordered by date
	FetchPending(ctx context.Context) ([]models.Schedule, error)
	// FetchByDate returns the selected users' rows on date joined with their profile image
	FetchByDate(ctx context.Context, who EmailSelector, date string) ([]models.ScheduleView, error)
	// RequestLeave marks the day pending, creating the row when absent
	RequestLeave(ctx context.Context, req LeaveRequest) error
	// CancelLeave sets the day back to work; a missing row is not an error
	CancelLeave(ctx context.Context, email, date string) error
	// ApproveLeave moves a pending day to leave
	ApproveLeave(ctx context.Context, email, date string) error
	// RejectLeave moves a pending day back to work
	RejectLeave(ctx context.Context, email, date string) error
	// UpdateLeaveStatus moves a pending day to the given status
	UpdateLeaveStatus(ctx context.Context, email, date, status string) error
	// CheckIn moves a work day to status, or checked-in when status is empty
	CheckIn(ctx context.Context, email, date, status string) (string, error)
	// AddSchedule inserts a new row
	AddSchedule(ctx context.Context, in ScheduleInput) error
	// UpdateSchedule rewrites the row matching the old date and time range
	UpdateSchedule(ctx context.Context, change ScheduleChange) error
}

type scheduleService struct {
	db      *gorm.DB
	log     logrus.FieldLogger
	enforce bool
	loc     *time.Location
	now     func() time.Time
}

// NewScheduleService creates a new instance of ScheduleService
func NewScheduleService(db *gorm.DB, opts ScheduleOptions, log logrus.FieldLogger) ScheduleService {
	s := &scheduleService{
		db:      db,
		log:     log,
		enforce: opts.EnforceCheckInWindow,
		loc:     opts.Location,
		now:     opts.Now,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *scheduleService) FetchByEmail(ctx context.Context, email string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.TrimSpace(email)).
		Order("date").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (s *scheduleService) FetchPending(ctx context.Context) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := s.db.WithContext(ctx).
		Where("status = ?", models.ScheduleStatusPending).
		Order("date").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (s *scheduleService) FetchByDate(ctx context.Context, who EmailSelector, date string) ([]models.ScheduleView, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Table("schedules AS s").
		Select("s.email, s.date, s.status, s.time_range, COALESCE(s.reason, '') AS reason, COALESCE(u.image_url, '') AS image_url").
		Joins("LEFT JOIN users u ON u.email = s.email").
		Where("s.date = ?", date)
	if email, ok := who.Email(); ok {
		query = query.Where("s.email = ?", email)
	} else {
		query = query.Order("s.email")
	}

	var views []models.ScheduleView
	if err := query.Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

func (s *scheduleService) RequestLeave(ctx context.Context, req LeaveRequest) error {
	if err := validateKey(req.Email, req.Date); err != nil {
		return err
	}
	timeRange := req.TimeRange
	if timeRange == "" {
		timeRange = DefaultTimeRange
	}
	if _, err := ParseTimeRange(timeRange); err != nil {
		return validationError("%v", err)
	}

	db := s.db.WithContext(ctx)
	// Any existing status is overwritten, including an approved leave.
	result := db.Model(&models.Schedule{}).
		Where("email = ? AND date = ?", req.Email, req.Date).
		Updates(map[string]interface{}{
			"status": models.ScheduleStatusPending,
			"reason": req.Reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		s.logTransition(req.Email, req.Date, models.ScheduleStatusPending).Info("Leave requested")
		return nil
	}

	schedule := &models.Schedule{
		Email:     req.Email,
		Date:      req.Date,
		Status:    models.ScheduleStatusPending,
		TimeRange: timeRange,
		Reason:    req.Reason,
	}
	if err := db.Create(schedule).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrScheduleExists
		}
		return err
	}
	s.logTransition(req.Email, req.Date, models.ScheduleStatusPending).Info("Leave requested on new schedule")
	return nil
}

func (s *scheduleService) CancelLeave(ctx context.Context, email, date string) error {
	if err := validateKey(email, date); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Model(&models.Schedule{}).
		Where("email = ? AND date = ?", email, date).
		Update("status", models.ScheduleStatusWork)
	if result.Error != nil {
		return result.Error
	}
	s.logTransition(email, date, models.ScheduleStatusWork).
		WithField("rows", result.RowsAffected).
		Info("Leave canceled")
	return nil
}

func (s *scheduleService) ApproveLeave(ctx context.Context, email, date string) error {
	return s.decidePending(ctx, email, date, models.ScheduleStatusLeave)
}

func (s *scheduleService) RejectLeave(ctx context.Context, email, date string) error {
	return s.decidePending(ctx, email, date, models.ScheduleStatusWork)
}

func (s *scheduleService) UpdateLeaveStatus(ctx context.Context, email, date, status string) error {
	if strings.TrimSpace(status) == "" {
		return validationError("Missing status")
	}
	return s.decidePending(ctx, email, date, status)
}

// decidePending resolves a leave request in one conditional statement
func (s *scheduleService) decidePending(ctx context.Context, email, date, status string) error {
	if err := validateKey(email, date); err != nil {
		return err
	}
	ok, err := s.transition(ctx, email, date, models.ScheduleStatusPending, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoPendingSchedule
	}
	s.logTransition(email, date, status).Info("Leave decided")
	return nil
}

func (s *scheduleService) CheckIn(ctx context.Context, email, date, status string) (string, error) {
	if err := validateKey(email, date); err != nil {
		return "", err
	}
	if status == "" {
		status = models.ScheduleStatusCheckedIn
	}

	var current models.Schedule
	err := s.db.WithContext(ctx).
		Where("email = ? AND date = ?", email, date).
		First(&current).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrScheduleNotFound
		}
		return "", err
	}
	if current.Status != models.ScheduleStatusWork {
		return "", &StatusMismatchError{Current: current.Status}
	}

	if s.enforce {
		window, err := ParseTimeRange(current.TimeRange)
		if err != nil {
			return "", validationError("%v", err)
		}
		now := TimeOfDayOf(s.now().In(s.loc))
		if !window.Contains(now) {
			s.log.WithFields(logrus.Fields{
				"email":  email,
				"date":   date,
				"now":    now.String(),
				"window": window.String(),
			}).Debug("Check-in outside time window")
			return "", ErrOutsideCheckInTime
		}
	}

	// The read above only produces diagnostics; the guard that counts is here.
	ok, err := s.transition(ctx, email, date, models.ScheduleStatusWork, status)
	if err != nil {
		return "", err
	}
	if !ok {
		var latest models.Schedule
		if err := s.db.WithContext(ctx).Where("email = ? AND date = ?", email, date).First(&latest).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrScheduleNotFound
			}
			return "", err
		}
		return "", &StatusMismatchError{Current: latest.Status}
	}
	s.logTransition(email, date, status).Info("Checked in")
	return status, nil
}

func (s *scheduleService) AddSchedule(ctx context.Context, in ScheduleInput) error {
	if err := validateKey(in.Email, in.Date); err != nil {
		return err
	}
	if in.TimeRange == "" || in.Status == "" {
		return validationError("Missing timeRange or status")
	}
	if _, err := ParseTimeRange(in.TimeRange); err != nil {
		return validationError("%v", err)
	}

	schedule := &models.Schedule{
		Email:     in.Email,
		Date:      in.Date,
		Status:    in.Status,
		TimeRange: in.TimeRange,
	}
	if err := s.db.WithContext(ctx).Create(schedule).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrScheduleExists
		}
		return err
	}
	s.logTransition(in.Email, in.Date, in.Status).Info("Schedule added")
	return nil
}

func (s *scheduleService) UpdateSchedule(ctx context.Context, change ScheduleChange) error {
	if change.Email == "" || change.OldDate == "" || change.OldTimeRange == "" ||
		change.Date == "" || change.TimeRange == "" || change.Status == "" {
		return validationError("Missing fields")
	}
	if err := validateDate(change.Date); err != nil {
		return err
	}
	if _, err := ParseTimeRange(change.TimeRange); err != nil {
		return validationError("%v", err)
	}

	result := s.db.WithContext(ctx).Model(&models.Schedule{}).
		Where("email = ? AND date = ? AND time_range = ?", change.Email, change.OldDate, change.OldTimeRange).
		Updates(map[string]interface{}{
			"date":       change.Date,
			"time_range": change.TimeRange,
			"status":     change.Status,
		})
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return ErrScheduleExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	s.logTransition(change.Email, change.Date, change.Status).Info("Schedule updated")
	return nil
}

// transition is a compare-and-set on the status column. It reports whether
// a row in status from was moved to status to.
func (s *scheduleService) transition(ctx context.Context, email, date, from, to string) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Schedule{}).
		Where("email = ? AND date = ? AND status = ?", email, date, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *scheduleService) logTransition(email, date, status string) logrus.FieldLogger {
	return s.log.WithFields(logrus.Fields{
		"email":  email,
		"date":   date,
		"status": status,
	})
}

func validateKey(email, date string) error {
	if strings.TrimSpace(email) == "" {
		return validationError("Missing email")
	}
	return validateDate(date)
}

func validateDate(date string) error {
	if date == "" {
		return validationError("Missing date")
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return validationError("Invalid date %q, expected YYYY-MM-DD", date)
	}
	return nil
}
