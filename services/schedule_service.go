package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tripplanner/metrics"
	"tripplanner/models"
	"tripplanner/utils"
)

type CreateScheduleInput struct {
	EventID       uint   `json:"event_id" validate:"required"`
	StartDateTime string `json:"start_date_time" validate:"required"`
}

type UpdateScheduleInput struct {
	EventID       *uint   `json:"event_id" validate:"omitempty,gt=0"`
	StartDateTime *string `json:"start_date_time" validate:"omitempty,min=1"`
}

// ScheduleQuery filters the schedule listing. UserID 0 means the caller.
type ScheduleQuery struct {
	UserID uint
	Date   string
}

// TripBoundsDetails is returned with OUT_OF_TRIP_BOUNDS rejections
type TripBoundsDetails struct {
	TripStart time.Time `json:"trip_start"`
	TripEnd   time.Time `json:"trip_end"`
}

// ConflictDetails is returned with TIME_CONFLICT rejections
type ConflictDetails struct {
	Conflicts []models.ScheduleConflict `json:"conflicts"`
}

type ScheduleService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db, log: utils.Component("schedule")}
}

// checkPlacement runs the bounds check and then the overlap check for a
// candidate [start, end) on userID's calendar. excludeID skips the row being edited.
func checkPlacement(db *gorm.DB, group *models.Group, userID uint, start, end time.Time, excludeID uint) error {
	if group.HasTripBounds() && !utils.WithinTrip(start, end, group.StartDate, group.EndDate) {
		metrics.ScheduleRejections.WithLabelValues(metrics.ReasonOutOfBounds).Inc()
		return utils.NewValidationError("event must be scheduled within the trip dates").
			WithCode(utils.CodeOutOfTripBounds).
			WithDetails(TripBoundsDetails{TripStart: *group.StartDate, TripEnd: *group.EndDate})
	}

	q := db.Preload("Event").
		Where("group_id = ? AND user_id = ?", group.ID, userID).
		Where("start_date_time < ? AND end_date_time > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var existing []models.EventSchedule
	if err := q.Order("start_date_time ASC").Find(&existing).Error; err != nil {
		return utils.NewInternalError("failed to check schedule conflicts", err)
	}

	conflicts := []models.ScheduleConflict{}
	for _, row := range existing {
		if !utils.Overlaps(row.StartDateTime, row.EndDateTime, start, end) {
			continue
		}
		conflict := models.ScheduleConflict{
			ScheduleID: row.ID,
			Start:      row.StartDateTime,
			End:        row.EndDateTime,
		}
		if row.Event != nil {
			conflict.Title = row.Event.Title
		}
		conflicts = append(conflicts, conflict)
	}

	if len(conflicts) > 0 {
		metrics.ScheduleRejections.WithLabelValues(metrics.ReasonTimeConflict).Inc()
		return utils.NewConflictError(utils.CodeTimeConflict, "time conflict with existing events").
			WithDetails(ConflictDetails{Conflicts: conflicts})
	}
	return nil
}

func parseStart(value string) (time.Time, error) {
	start, err := utils.ParseDateTime(value)
	if err != nil {
		return time.Time{}, utils.NewValidationError("start_date_time must be an RFC3339 timestamp")
	}
	return start.UTC().Truncate(time.Second), nil
}

func findEvent(db *gorm.DB, groupID, eventID uint) (*models.Event, error) {
	var event models.Event
	if err := db.Where("id = ? AND group_id = ?", eventID, groupID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("event")
		}
		return nil, utils.NewInternalError("failed to load event", err)
	}
	return &event, nil
}

// findOwnSchedule loads a schedule row of the group that belongs to the actor
func findOwnSchedule(db *gorm.DB, groupID uint, actor *models.User, scheduleID uint) (*models.EventSchedule, error) {
	var row models.EventSchedule
	if err := db.Where("id = ? AND group_id = ?", scheduleID, groupID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("schedule entry")
		}
		return nil, utils.NewInternalError("failed to load schedule entry", err)
	}
	if row.UserID != actor.ID {
		return nil, utils.NewForbiddenError("you can only change your own schedule")
	}
	return &row, nil
}

func (s *ScheduleService) reload(db *gorm.DB, id uint) (*models.EventSchedule, error) {
	var row models.EventSchedule
	if err := db.Preload("Event").Preload("User").First(&row, id).Error; err != nil {
		return nil, utils.NewInternalError("failed to load schedule entry", err)
	}
	return &row, nil
}

// List returns one member's placements in ascending start order, optionally
// restricted to a single UTC day.
func (s *ScheduleService) List(ctx context.Context, actor *models.User, slug string, query ScheduleQuery) ([]models.EventSchedule, error) {
	db := s.db.WithContext(ctx)
	group, _, err := requireMember(db, actor, slug)
	if err != nil {
		return nil, err
	}

	targetID := actor.ID
	if query.UserID != 0 && query.UserID != actor.ID {
		target, err := findMembership(db, group.ID, query.UserID)
		if err != nil {
			return nil, err
		}
		if target == nil || !target.IsActive() {
			return nil, utils.NewForbiddenError("requested user is not a member of this group")
		}
		targetID = query.UserID
	}

	q := db.Preload("Event").Preload("User").
		Where("group_id = ? AND user_id = ?", group.ID, targetID)
	if query.Date != "" {
		dayStart, dayEnd, err := utils.ParseDay(query.Date)
		if err != nil {
			return nil, utils.NewValidationError("date must be formatted as YYYY-MM-DD")
		}
		q = q.Where("start_date_time >= ? AND start_date_time < ?", dayStart, dayEnd)
	}

	rows := []models.EventSchedule{}
	if err := q.Order("start_date_time ASC").Find(&rows).Error; err != nil {
		return nil, utils.NewInternalError("failed to list schedule", err)
	}
	return rows, nil
}

// Create places a catalog event on the actor's calendar
func (s *ScheduleService) Create(ctx context.Context, actor *models.User, slug string, input CreateScheduleInput) (*models.EventSchedule, error) {
	db := s.db.WithContext(ctx)
	group, _, err := requireMember(db, actor, slug)
	if err != nil {
		return nil, err
	}

	start, err := parseStart(input.StartDateTime)
	if err != nil {
		return nil, err
	}
	event, err := findEvent(db, group.ID, input.EventID)
	if err != nil {
		return nil, err
	}

	end := utils.ScheduleEnd(start, event.DurationHours)
	if err := checkPlacement(db, group, actor.ID, start, end, 0); err != nil {
		return nil, err
	}

	row := &models.EventSchedule{
		GroupID:       group.ID,
		UserID:        actor.ID,
		EventID:       event.ID,
		StartDateTime: start,
		EndDateTime:   end,
	}
	if err := db.Create(row).Error; err != nil {
		return nil, utils.NewInternalError("failed to create schedule entry", err)
	}

	s.log.WithFields(logrus.Fields{
		"group_id":    group.ID,
		"schedule_id": row.ID,
		"event_id":    event.ID,
	}).Info("Event scheduled")
	return s.reload(db, row.ID)
}

// Update moves a placement or swaps its event. When neither the start nor the
// event actually changes, no checks run and the row is left untouched.
func (s *ScheduleService) Update(ctx context.Context, actor *models.User, slug string, scheduleID uint, input UpdateScheduleInput) (*models.EventSchedule, error) {
	db := s.db.WithContext(ctx)
	group, _, err := requireMember(db, actor, slug)
	if err != nil {
		return nil, err
	}

	row, err := findOwnSchedule(db, group.ID, actor, scheduleID)
	if err != nil {
		return nil, err
	}

	start := row.StartDateTime
	startChanged := false
	if input.StartDateTime != nil {
		parsed, err := parseStart(*input.StartDateTime)
		if err != nil {
			return nil, err
		}
		startChanged = !parsed.Equal(row.StartDateTime)
		start = parsed
	}

	eventID := row.EventID
	eventChanged := input.EventID != nil && *input.EventID != row.EventID
	if eventChanged {
		eventID = *input.EventID
	}

	if !startChanged && !eventChanged {
		return s.reload(db, row.ID)
	}

	event, err := findEvent(db, group.ID, eventID)
	if err != nil {
		return nil, err
	}

	end := utils.ScheduleEnd(start, event.DurationHours)
	if err := checkPlacement(db, group, actor.ID, start, end, row.ID); err != nil {
		return nil, err
	}

	err = db.Model(row).Updates(map[string]interface{}{
		"event_id":        eventID,
		"start_date_time": start,
		"end_date_time":   end,
	}).Error
	if err != nil {
		return nil, utils.NewInternalError("failed to update schedule entry", err)
	}
	return s.reload(db, row.ID)
}

// Delete removes one of the actor's placements
func (s *ScheduleService) Delete(ctx context.Context, actor *models.User, slug string, scheduleID uint) error {
	db := s.db.WithContext(ctx)
	group, _, err := requireMember(db, actor, slug)
	if err != nil {
		return err
	}

	row, err := findOwnSchedule(db, group.ID, actor, scheduleID)
	if err != nil {
		return err
	}

	if err := db.Delete(row).Error; err != nil {
		return utils.NewInternalError("failed to delete schedule entry", err)
	}
	return nil
}
