package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tripplanner/models"
	"tripplanner/utils"
)

type CreateGroupInput struct {
	Name      string  `json:"name" validate:"required,max=100"`
	Place     string  `json:"place" validate:"max=200"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type GroupService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db, log: utils.Component("groups")}
}

// parseTripDates enforces both-or-neither and start <= end
func parseTripDates(start, end *string) (*time.Time, *time.Time, error) {
	hasStart := start != nil && strings.TrimSpace(*start) != ""
	hasEnd := end != nil && strings.TrimSpace(*end) != ""
	if !hasStart && !hasEnd {
		return nil, nil, nil
	}
	if hasStart != hasEnd {
		return nil, nil, utils.NewValidationError("start_date and end_date must be provided together")
	}

	startDate, err := utils.ParseDateTime(strings.TrimSpace(*start))
	if err != nil {
		return nil, nil, utils.NewValidationError("start_date must be an RFC3339 timestamp or YYYY-MM-DD")
	}
	endDate, err := utils.ParseDateTime(strings.TrimSpace(*end))
	if err != nil {
		return nil, nil, utils.NewValidationError("end_date must be an RFC3339 timestamp or YYYY-MM-DD")
	}
	if startDate.After(endDate) {
		return nil, nil, utils.NewValidationError("start_date must not be after end_date")
	}

	startDate, endDate = startDate.UTC().Truncate(time.Second), endDate.UTC().Truncate(time.Second)
	return &startDate, &endDate, nil
}

// Create allocates a unique slug and inserts the group together with the
// creator's admin membership in one transaction.
func (s *GroupService) Create(ctx context.Context, actor *models.User, input CreateGroupInput) (*models.Group, error) {
	if actor == nil {
		return nil, utils.NewUnauthenticatedError("authentication required")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, utils.NewValidationError("name is required")
	}
	startDate, endDate, err := parseTripDates(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, utils.NewInternalError("failed to start transaction", tx.Error)
	}

	// Soft-deleted groups still hold their slug in the unique index
	slug, err := utils.SlugCandidates(name, func(candidate string) (bool, error) {
		var count int64
		err := tx.Unscoped().Model(&models.Group{}).Where("slug = ?", candidate).Count(&count).Error
		return count > 0, err
	})
	if err != nil {
		tx.Rollback()
		return nil, utils.NewInternalError("failed to allocate slug", err)
	}

	group := &models.Group{
		Name:         name,
		Slug:         slug,
		OwnerID:      actor.ID,
		Place:        strings.TrimSpace(input.Place),
		StartDate:    startDate,
		EndDate:      endDate,
		MembersCount: 1,
	}
	if err := tx.Create(group).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewConflictError(utils.CodeSlugConflict, "a group with this slug was just created, please retry")
		}
		return nil, utils.NewInternalError("failed to create group", err)
	}

	membership := &models.Membership{
		UserID:   actor.ID,
		GroupID:  group.ID,
		Role:     models.RoleAdmin,
		Status:   models.StatusActive,
		JoinedAt: time.Now().UTC(),
	}
	if err := tx.Create(membership).Error; err != nil {
		tx.Rollback()
		return nil, utils.NewInternalError("failed to create membership", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, utils.NewInternalError("failed to commit group", err)
	}

	utils.LogEvent("group_created", map[string]interface{}{
		"group_id": group.ID,
		"slug":     group.Slug,
		"owner_id": actor.ID,
	})
	return group, nil
}

// List returns the groups the actor is an active member of, by name
func (s *GroupService) List(ctx context.Context, actor *models.User) ([]models.GroupSummary, error) {
	if actor == nil {
		return nil, utils.NewUnauthenticatedError("authentication required")
	}

	groups := []models.GroupSummary{}
	err := s.db.WithContext(ctx).
		Model(&models.Group{}).
		Select("groups.id, groups.name, groups.slug, groups.members_count").
		Joins("JOIN memberships ON memberships.group_id = groups.id").
		Where("memberships.user_id = ? AND memberships.status = ?", actor.ID, models.StatusActive).
		Order("groups.name ASC, groups.id ASC").
		Scan(&groups).Error
	if err != nil {
		return nil, utils.NewInternalError("failed to list groups", err)
	}
	return groups, nil
}

// Get returns a group the actor belongs to
func (s *GroupService) Get(ctx context.Context, actor *models.User, slug string) (*models.Group, error) {
	group, _, err := requireMember(s.db.WithContext(ctx), actor, slug)
	return group, err
}
