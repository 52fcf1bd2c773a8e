// Package services implements the trip planner operations. Every call takes
// the authenticated user explicitly; nothing is read from request state.
package services

import (
	"errors"

	"gorm.io/gorm"

	"tripplanner/models"
	"tripplanner/utils"
)

// findGroup loads a group by slug
func findGroup(db *gorm.DB, slug string) (*models.Group, error) {
	var group models.Group
	if err := db.Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("group")
		}
		return nil, utils.NewInternalError("failed to load group", err)
	}
	return &group, nil
}

// findMembership returns the (user, group) membership row or nil when absent
func findMembership(db *gorm.DB, groupID, userID uint) (*models.Membership, error) {
	var membership models.Membership
	err := db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.NewInternalError("failed to load membership", err)
	}
	return &membership, nil
}

// requireMember loads the group and checks the actor is an active member of it
func requireMember(db *gorm.DB, actor *models.User, slug string) (*models.Group, *models.Membership, error) {
	if actor == nil {
		return nil, nil, utils.NewUnauthenticatedError("authentication required")
	}

	group, err := findGroup(db, slug)
	if err != nil {
		return nil, nil, err
	}

	membership, err := findMembership(db, group.ID, actor.ID)
	if err != nil {
		return nil, nil, err
	}
	if membership == nil || !membership.IsActive() {
		return nil, nil, utils.NewForbiddenError("you are not a member of this group")
	}
	return group, membership, nil
}

// requireAdmin is requireMember restricted to active admins
func requireAdmin(db *gorm.DB, actor *models.User, slug string) (*models.Group, *models.Membership, error) {
	group, membership, err := requireMember(db, actor, slug)
	if err != nil {
		return nil, nil, err
	}
	if !membership.IsAdmin() {
		return nil, nil, utils.NewForbiddenError("only group admins can manage members")
	}
	return group, membership, nil
}

// activeMemberIDs returns which of the given user ids hold an active membership
func activeMemberIDs(db *gorm.DB, groupID uint, userIDs []uint) (map[uint]bool, error) {
	var ids []uint
	err := db.Model(&models.Membership{}).
		Where("group_id = ? AND status = ? AND user_id IN ?", groupID, models.StatusActive, userIDs).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, utils.NewInternalError("failed to load memberships", err)
	}

	active := make(map[uint]bool, len(ids))
	for _, id := range ids {
		active[id] = true
	}
	return active, nil
}
