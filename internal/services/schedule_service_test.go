package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-shift-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice@x.com"
	bob   = "bob@x.com"
	day   = "2024-01-01"
)

func TestRequestLeaveCreatesPendingRow(t *testing.T) {
	svc, db := newTestScheduleService(t, ScheduleOptions{})
	ctx := context.Background()

	require.NoError(t, svc.RequestLeave(ctx, LeaveRequest{Email: alice, Date: day, Reason: "dentist"}))
	require.NoError(t, svc.RequestLeave(ctx, LeaveRequest{Email: alice, Date: day, Reason: "dentist again"}))

	assert.EqualValues(t, 1, countSchedules(t, db, alice, day))

	var row models.Schedule
	require.NoError(t, db.Where("email = ? AND date = ?", alice, day).First(&row).Error)
	assert.Equal(t, models.ScheduleStatusPending, row.Status)
	assert.Equal(t, DefaultTimeRange, row.TimeRange)
	assert.Equal(t, "dentist again", row.Reason)
}

func TestRequestLeaveOverwritesExistingStatus(t *testing.T) {
	svc, db := newTestScheduleService(t, ScheduleOptions{})
	ctx := context.Background()
	seedSchedule(t, db, alice, day, models.ScheduleStatusLeave, "08:00 - 12:00")

	require.NoError(t, svc.RequestLeave(ctx, LeaveRequest{Email: alice, Date: day}))

	var row models.Schedule
	require.NoError(t, db.Where("email = ? AND date = ?", alice, day).First(&row).Error)
	assert.Equal(t, models.ScheduleStatusPending, row.Status)
	assert.Equal(t, "08:00 - 12:00", row.TimeRange, "existing time range is kept")
}

func TestRequestLeaveConcurrentFirstRequestsKeepOneRow(t *testing.T) {
	svc, db := newTestScheduleService(t, ScheduleOptions{})
	ctx := context.Background()

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.RequestLeave(ctx, LeaveRequest{Email: alice, Date: day})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrScheduleExists)
	}
	assert.GreaterOrEqual(t, succeeded, 1)
	assert.EqualValues(t, 1, countSchedules(t, db, alice, day))
	assert.Equal(t, models.ScheduleStatusPending, statusOf(t, db, alice, day))
}

func TestCancelLeave(t *testing.T) {
	svc, db := newTestScheduleService(t, ScheduleOptions{})
	ctx := context.Background()
	seedSchedule(t, db, alice, day, models.ScheduleStatusPending, DefaultTimeRange)

	require.NoError(t, svc.CancelLeave(ctx, alice, day))
	assert.Equal(t, models.ScheduleStatusWork, statusOf(t, db, alice, day))

	// absent rows are silently ignored
	require.NoError(t, svc.CancelLeave(ctx, bob, day))
	assert.EqualValues(t, 0, countSchedules(t, db, bob, day))
}

func TestLeaveDecisionsRequirePending(t *testing.T) {
	testCases := []struct {
		name    string
		decide  func(ScheduleService, context.Context) error
		initial string
		want    string
		wantErr error
	}{
		{
			name:    "approve pending",
			decide:  func(s ScheduleService, ctx context.Context) error { return s.ApproveLeave(ctx, alice, day) },
			initial: models.ScheduleStatusPending,
			want:    models.ScheduleStatusLeave,
		},
		{
			name:    "reject pending",
			decide:  func(s ScheduleService, ctx context.Context) error { return s.RejectLeave(ctx, alice, day) },
			initial: models.ScheduleStatusPending,
			want:    models.ScheduleStatusWork,
		},
		{
			name:    "update leave status pending",
			decide:  func(s ScheduleService, ctx context.Context) error { return s.UpdateLeaveStatus(ctx, alice, day, "sick") },
			initial: models.ScheduleStatusPending,
			want:    "sick",
		},
		{
			name:    "approve work",
			decide:  func(s ScheduleService, ctx context.Context) error { return s.ApproveLeave(ctx, alice, day) },
			initial: models.ScheduleStatusWork,
			want:    models.ScheduleStatusWork,
			wantErr: ErrNoPendingSchedule,
		},
		{
			name:    "reject already approved",
			decide:  func(s ScheduleService, ctx context.Context) error { return s.RejectLeave(ctx, alice, day) },
			initial: models.ScheduleStatusLeave,
			want:    models.ScheduleStatusLeave,
			wantErr: ErrNoPendingSchedule,
		},
		{
			name:    "update leave status on checked-in",
			decide:  func(s ScheduleService, ctx context.Context) error { return s.UpdateLeaveStatus(ctx, alice, day, "leave") },
			initial: models.ScheduleStatusCheckedIn,
			want:    models.ScheduleStatusCheckedIn,
			wantErr: ErrNoPendingSchedule,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := newTestScheduleService(t, ScheduleOptions{})
			seedSchedule(t, db, alice, day, tt.initial, DefaultTimeRange)

			err := tt.decide(svc, context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrNotFound)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, statusOf(t, db, alice, day))
		})
	}
}

func TestApproveLeaveMissingRow(t *testing.T) {
	svc, _ := newTestScheduleService(t, ScheduleOptions{})
	assert.ErrorIs(t, svc.ApproveLeave(context.Background(), alice, day), ErrNoPendingSchedule)
}

func TestUpdateLeaveStatusRequiresStatus(t *testing.T) {
	svc, _ := newTestScheduleService(t, ScheduleOptions{})
	assert.ErrorIs(t, svc.UpdateLeaveStatus(context.Background(), alice, day, " "), ErrValidation)
}

func TestConcurrentApprovalsOnlyOneWins(t *testing.T) {
	svc, db := newTestScheduleService(t, ScheduleOptions{})
	ctx := context.Background()
	seedSchedule(t, db, alice, day, models.ScheduleStatusPending, DefaultTimeRange)

	const workers = 10
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(approve bool) {
			defer wg.Done()
			if approve {
				errs <- svc.ApproveLeave(ctx, alice, day)
			} else {
				errs <- svc.RejectLeave(ctx, alice, day)
			}
		}(i%2 == 0)
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, ErrNoPendingSchedule)
	}
	assert.Equal(t, 1, wins)
	assert.Contains(t, []string{models.ScheduleStatusLeave, models.ScheduleStatusWork}, statusOf(t, db, alice, day))
}

func TestCheckInSimpleVariant(t *testing.T) {
	svc, db := newTestScheduleService(t, ScheduleOptions{EnforceCheckInWindow: false, Now: fixedClock(23, 0)})
	ctx := context.Background()
	seedSchedule(t, db, alice, day, models.ScheduleStatusWork, DefaultTimeRange)

	status, err := svc.CheckIn(ctx, alice, day, "")
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleStatusCheckedIn, status)
	assert.Equal(t, models.ScheduleStatusCheckedIn, statusOf(t, db, alice, day))

	t.Run("second check-in reports current status", func(t *testing.T) {
		_, err := svc.CheckIn(ctx, alice, day, "")
		var mismatch *StatusMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, models.ScheduleStatusCheckedIn, mismatch.Current)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "Cannot check in, current status: checked-in", err.Error())
	})

	t.Run("caller-supplied status", func(t *testing.T) {
		seedSchedule(t, db, bob, day, models.ScheduleStatusWork, DefaultTimeRange)
		status, err := svc.CheckIn(ctx, bob, day, "late")
		require.NoError(t, err)
		assert.Equal(t, "late", status)
	})

	t.Run("missing row", func(t *testing.T) {
		_, err := svc.CheckIn(ctx, "ghost@x.com", day, "")
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})

	t.Run("pending row", func(t *testing.T) {
		seedSchedule(t, db, "carol@x.com", day, models.ScheduleStatusPending, DefaultTimeRange)
		_, err := svc.CheckIn(ctx, "carol@x.com", day, "")
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, models.ScheduleStatusPending, statusOf(t, db, "carol@x.com", day))
	})
}

func TestCheckInTimeWindow(t *testing.T) {
	testCases := []struct {
		name   string
		hh, mm int
		ok     bool
	}{
		{name: "one minute early", hh: 8, mm: 59, ok: false},
		{name: "at start", hh: 9, mm: 0, ok: true},
		{name: "midday", hh: 12, mm: 15, ok: true},
		{name: "at end", hh: 17, mm: 0, ok: true},
		{name: "one minute late", hh: 17, mm: 1, ok: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := newTestScheduleService(t, ScheduleOptions{
				EnforceCheckInWindow: true,
				Now:                  fixedClock(tt.hh, tt.mm),
			})
			seedSchedule(t, db, alice, day, models.ScheduleStatusWork, "09:00 - 17:00")

			_, err := svc.CheckIn(context.Background(), alice, day, "")
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, models.ScheduleStatusCheckedIn, statusOf(t, db, alice, day))
			} else {
				assert.ErrorIs(t, err, ErrOutsideCheckInTime)
				assert.Equal(t, models.ScheduleStatusWork, statusOf(t, db, alice, day))
			}
		})
	}
}

func TestCheckInTimeWindowNeedsWorkStatus(t *testing.T) {
	svc, db := newTestScheduleService(t, ScheduleOptions{EnforceCheckInWindow: true, Now: fixedClock(9, 0)})
	seedSchedule(t, db, alice, day, models.ScheduleStatusLeave, "09:00 - 17:00")

	_, err := svc.CheckIn(context.Background(), alice, day, "")
	var mismatch *StatusMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, models.ScheduleStatusLeave, mismatch.Current)
}

func TestCheckInTimeWindowUsesConfiguredLocation(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)
	// 02:30 UTC is 09:30 in UTC+7
	svc, db := newTestScheduleService(t, ScheduleOptions{
		EnforceCheckInWindow: true,
		Location:             bangkok,
		Now:                  fixedClock(2, 30),
	})
	seedSchedule(t, db, alice, day, models.ScheduleStatusWork, "09:00 - 17:00")

	_, err := svc.CheckIn(context.Background(), alice, day, "")
	assert.NoError(t, err)
}

func TestCheckInTimeWindowRejectsMalformedRange(t *testing.T) {
	svc, db := newTestScheduleService(t, ScheduleOptions{EnforceCheckInWindow: true, Now: fixedClock(10, 0)})
	seedSchedule(t, db, alice, day, models.ScheduleStatusWork, "whenever")

	_, err := svc.CheckIn(context.Background(), alice, day, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddScheduleThenFetchByEmail(t *testing.T) {
	svc, _ := newTestScheduleService(t, ScheduleOptions{})
	ctx := context.Background()

	require.NoError(t, svc.AddSchedule(ctx, ScheduleInput{Email: alice, Date: "2024-01-02", TimeRange: "10:00 - 18:00", Status: "work"}))
	require.NoError(t, svc.AddSchedule(ctx, ScheduleInput{Email: alice, Date: day, TimeRange: "09:00 - 17:00", Status: "work"}))

	rows, err := svc.FetchByEmail(ctx, alice)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, day, rows[0].Date, "ordered by date")

	start, end := SplitTimeRange(rows[0].TimeRange)
	assert.Equal(t, "09:00", start)
	assert.Equal(t, "17:00", end)

	t.Run("duplicate day", func(t *testing.T) {
		err := svc.AddSchedule(ctx, ScheduleInput{Email: alice, Date: day, TimeRange: "09:00 - 17:00", Status: "work"})
		assert.ErrorIs(t, err, ErrScheduleExists)
		assert.NotErrorIs(t, err, ErrConflict)
	})

	t.Run("invalid input", func(t *testing.T) {
		err := svc.AddSchedule(ctx, ScheduleInput{Email: alice, Date: "01/03/2024", TimeRange: "09:00 - 17:00", Status: "work"})
		assert.ErrorIs(t, err, ErrValidation)
		err = svc.AddSchedule(ctx, ScheduleInput{Email: alice, Date: "2024-01-03", TimeRange: "9 to 5", Status: "work"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestUpdateSchedule(t *testing.T) {
	svc, db := newTestScheduleService(t, ScheduleOptions{})
	ctx := context.Background()
	seedSchedule(t, db, alice, day, models.ScheduleStatusWork, "09:00 - 17:00")

	err := svc.UpdateSchedule(ctx, ScheduleChange{
		Email: alice, OldDate: day, OldTimeRange: "09:00 - 17:00",
		Date: "2024-01-05", TimeRange: "12:00 - 20:00", Status: "night",
	})
	require.NoError(t, err)

	var row models.Schedule
	require.NoError(t, db.Where("email = ?", alice).First(&row).Error)
	assert.Equal(t, "2024-01-05", row.Date)
	assert.Equal(t, "12:00 - 20:00", row.TimeRange)
	assert.Equal(t, "night", row.Status)

	t.Run("old time range must match", func(t *testing.T) {
		err := svc.UpdateSchedule(ctx, ScheduleChange{
			Email: alice, OldDate: "2024-01-05", OldTimeRange: "09:00 - 17:00",
			Date: "2024-01-06", TimeRange: "09:00 - 17:00", Status: "work",
		})
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		err := svc.UpdateSchedule(ctx, ScheduleChange{Email: alice, OldDate: day})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestFetchPending(t *testing.T) {
	svc, db := newTestScheduleService(t, ScheduleOptions{})
	seedSchedule(t, db, bob, "2024-01-03", models.ScheduleStatusPending, DefaultTimeRange)
	seedSchedule(t, db, alice, "2024-01-02", models.ScheduleStatusPending, DefaultTimeRange)
	seedSchedule(t, db, alice, day, models.ScheduleStatusWork, DefaultTimeRange)

	rows, err := svc.FetchPending(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-02", rows[0].Date)
	assert.Equal(t, "2024-01-03", rows[1].Date)
}

func TestFetchByDate(t *testing.T) {
	svc, db := newTestScheduleService(t, ScheduleOptions{})
	ctx := context.Background()
	require.NoError(t, db.Create(&models.User{Email: bob, PasswordHash: "x", ImageURL: "http://img/bob.png", Status: "active"}).Error)
	seedSchedule(t, db, bob, day, models.ScheduleStatusWork, DefaultTimeRange)
	seedSchedule(t, db, alice, day, models.ScheduleStatusLeave, DefaultTimeRange)
	seedSchedule(t, db, alice, "2024-01-02", models.ScheduleStatusWork, DefaultTimeRange)

	t.Run("all users on a day", func(t *testing.T) {
		rows, err := svc.FetchByDate(ctx, AllUsers(), day)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, alice, rows[0].Email)
		assert.Equal(t, "", rows[0].ImageURL, "user without profile row")
		assert.Equal(t, bob, rows[1].Email)
		assert.Equal(t, "http://img/bob.png", rows[1].ImageURL)
	})

	t.Run("one user on a day", func(t *testing.T) {
		rows, err := svc.FetchByDate(ctx, ForUser(alice), day)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, models.ScheduleStatusLeave, rows[0].Status)
	})

	t.Run("nothing on that day", func(t *testing.T) {
		rows, err := svc.FetchByDate(ctx, ForUser(bob), "2024-01-02")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := svc.FetchByDate(ctx, AllUsers(), "")
		assert.ErrorIs(t, err, ErrValidation)
	})
}
