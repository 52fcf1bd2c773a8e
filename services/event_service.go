package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tripplanner/models"
	"tripplanner/utils"
)

// CreateEventInput caps durations at one year (8760h)
type CreateEventInput struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Description   string   `json:"description" validate:"required,max=5000"`
	DurationHours *float64 `json:"duration_hours" validate:"required,gte=0,lte=8760"`
	Location      string   `json:"location" validate:"required,max=200"`
}

type UpdateEventInput struct {
	Title         *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string  `json:"description" validate:"omitempty,min=1,max=5000"`
	DurationHours *float64 `json:"duration_hours" validate:"omitempty,gte=0,lte=8760"`
	Location      *string  `json:"location" validate:"omitempty,min=1,max=200"`
}

type EventService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db, log: utils.Component("events")}
}

// canManageEvent allows the event's creator and group admins
func canManageEvent(event *models.Event, actor *models.User, membership *models.Membership) bool {
	return event.CreatedBy == actor.ID || membership.IsAdmin()
}

func (s *EventService) Create(ctx context.Context, actor *models.User, slug string, input CreateEventInput) (*models.Event, error) {
	db := s.db.WithContext(ctx)
	group, _, err := requireMember(db, actor, slug)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		GroupID:       group.ID,
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		DurationHours: *input.DurationHours,
		Location:      strings.TrimSpace(input.Location),
		CreatedBy:     actor.ID,
	}
	if event.Title == "" || event.Description == "" || event.Location == "" {
		return nil, utils.NewValidationError("title, description and location must not be blank")
	}

	if err := db.Create(event).Error; err != nil {
		return nil, utils.NewInternalError("failed to create event", err)
	}
	event.Creator = actor

	s.log.WithFields(logrus.Fields{"group_id": group.ID, "event_id": event.ID}).Info("Event created")
	return event, nil
}

// List returns the group's catalog, newest first
func (s *EventService) List(ctx context.Context, actor *models.User, slug string) ([]models.Event, error) {
	db := s.db.WithContext(ctx)
	group, _, err := requireMember(db, actor, slug)
	if err != nil {
		return nil, err
	}

	events := []models.Event{}
	err = db.Preload("Creator").
		Where("group_id = ?", group.ID).
		Order("created_at DESC, id DESC").
		Find(&events).Error
	if err != nil {
		return nil, utils.NewInternalError("failed to list events", err)
	}
	return events, nil
}

// Update applies a partial edit. A duration change re-derives the end of every
// placement of the event and re-checks them, all in one transaction.
func (s *EventService) Update(ctx context.Context, actor *models.User, slug string, eventID uint, input UpdateEventInput) (*models.Event, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, utils.NewInternalError("failed to start transaction", tx.Error)
	}

	group, membership, err := requireMember(tx, actor, slug)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	event, err := findEvent(tx, group.ID, eventID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !canManageEvent(event, actor, membership) {
		tx.Rollback()
		return nil, utils.NewForbiddenError("only the creator or a group admin can edit this event")
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Location != nil {
		updates["location"] = strings.TrimSpace(*input.Location)
	}
	for field, value := range updates {
		if value == "" {
			tx.Rollback()
			return nil, utils.NewValidationError("%s must not be blank", field)
		}
	}
	durationChanged := input.DurationHours != nil && *input.DurationHours != event.DurationHours
	if durationChanged {
		updates["duration_hours"] = *input.DurationHours
	}

	if len(updates) > 0 {
		if err := tx.Model(event).Updates(updates).Error; err != nil {
			tx.Rollback()
			return nil, utils.NewInternalError("failed to update event", err)
		}
	}

	if durationChanged {
		if err := s.rescheduleEnds(tx, group, event.ID, *input.DurationHours); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, utils.NewInternalError("failed to commit event update", err)
	}

	var updated models.Event
	if err := s.db.WithContext(ctx).Preload("Creator").First(&updated, event.ID).Error; err != nil {
		return nil, utils.NewInternalError("failed to load event", err)
	}
	return &updated, nil
}

// rescheduleEnds keeps end = start + duration for every placement of an event
func (s *EventService) rescheduleEnds(tx *gorm.DB, group *models.Group, eventID uint, durationHours float64) error {
	var rows []models.EventSchedule
	if err := tx.Where("event_id = ?", eventID).Order("id ASC").Find(&rows).Error; err != nil {
		return utils.NewInternalError("failed to load placements", err)
	}

	for _, row := range rows {
		end := utils.ScheduleEnd(row.StartDateTime, durationHours)
		if err := checkPlacement(tx, group, row.UserID, row.StartDateTime, end, row.ID); err != nil {
			return err
		}
		if err := tx.Model(&row).Update("end_date_time", end).Error; err != nil {
			return utils.NewInternalError("failed to update placement", err)
		}
	}
	return nil
}

// Delete removes the event and every placement of it in one transaction
func (s *EventService) Delete(ctx context.Context, actor *models.User, slug string, eventID uint) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return utils.NewInternalError("failed to start transaction", tx.Error)
	}

	group, membership, err := requireMember(tx, actor, slug)
	if err != nil {
		tx.Rollback()
		return err
	}
	event, err := findEvent(tx, group.ID, eventID)
	if err != nil {
		tx.Rollback()
		return err
	}
	if !canManageEvent(event, actor, membership) {
		tx.Rollback()
		return utils.NewForbiddenError("only the creator or a group admin can delete this event")
	}

	if err := tx.Where("event_id = ?", event.ID).Delete(&models.EventSchedule{}).Error; err != nil {
		tx.Rollback()
		return utils.NewInternalError("failed to delete placements", err)
	}
	if err := tx.Delete(event).Error; err != nil {
		tx.Rollback()
		return utils.NewInternalError("failed to delete event", err)
	}

	if err := tx.Commit().Error; err != nil {
		return utils.NewInternalError("failed to commit event deletion", err)
	}

	s.log.WithFields(logrus.Fields{"group_id": group.ID, "event_id": event.ID}).Info("Event deleted")
	return nil
}
