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

const (
	DefaultMemberPageSize = 20
	MaxMemberPageSize     = 100

	MessageMemberAdded   = "Member added to group"
	MessageAlreadyMember = "User is already a member"

	savepointAddMember = "add_member"
)

type AddMemberInput struct {
	Email string `json:"email" validate:"required,max=254,emailformat"`
}

// ListMembersQuery selects one page of a group's members
type ListMembersQuery struct {
	Limit  int
	After  string
	Search string
}

// MemberPage is one page of the member listing. TotalCount and HasMore
// describe the filtered set.
type MemberPage struct {
	Members    []models.MemberView `json:"members"`
	HasMore    bool                `json:"has_more"`
	NextCursor *string             `json:"next_cursor"`
	TotalCount int64               `json:"total_count"`
}

// AddMemberResult reports whether a membership was actually created or reactivated
type AddMemberResult struct {
	Member  models.MemberView `json:"member"`
	Added   bool              `json:"added"`
	Message string            `json:"message"`
}

type MembershipService struct {
	db       *gorm.DB
	notifier utils.Notifier
	log      *logrus.Entry
}

func NewMembershipService(db *gorm.DB, notifier utils.Notifier) *MembershipService {
	return &MembershipService{db: db, notifier: notifier, log: utils.Component("members")}
}

func memberView(m *models.Membership, user *models.User, group *models.Group) models.MemberView {
	return models.MemberView{
		MembershipID: m.ID,
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         m.Role,
		Status:       m.Status,
		IsOwner:      user.ID == group.OwnerID,
		JoinedAt:     m.JoinedAt,
	}
}

// escapeLike neutralises LIKE wildcards in user supplied search text
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns members in ascending membership id order. The search filter is
// applied before the cursor so paging walks the filtered set.
func (s *MembershipService) List(ctx context.Context, actor *models.User, slug string, query ListMembersQuery) (*MemberPage, error) {
	db := s.db.WithContext(ctx)
	group, _, err := requireMember(db, actor, slug)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultMemberPageSize
	}
	if limit > MaxMemberPageSize {
		limit = MaxMemberPageSize
	}
	afterID, err := utils.DecodeCursor(query.After)
	if err != nil {
		return nil, err
	}

	filtered := func() *gorm.DB {
		q := db.Table("memberships").
			Joins("JOIN users ON users.id = memberships.user_id AND users.deleted_at IS NULL").
			Where("memberships.group_id = ?", group.ID)
		if search := strings.ToLower(strings.TrimSpace(query.Search)); search != "" {
			pattern := "%" + escapeLike(search) + "%"
			q = q.Where(`(LOWER(users.name) LIKE ? ESCAPE '\' OR LOWER(users.email) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, utils.NewInternalError("failed to count members", err)
	}

	rows := []models.MemberView{}
	err = filtered().
		Select(`memberships.id AS membership_id, users.id AS user_id, users.name AS name, users.email AS email,
			memberships.role AS role, memberships.status AS status, memberships.joined_at AS joined_at`).
		Where("memberships.id > ?", afterID).
		Order("memberships.id ASC").
		Limit(limit + 1).
		Scan(&rows).Error
	if err != nil {
		return nil, utils.NewInternalError("failed to list members", err)
	}

	page := &MemberPage{TotalCount: total}
	if len(rows) > limit {
		rows = rows[:limit]
		page.HasMore = true
		page.NextCursor = utils.Pointer(utils.EncodeCursor(rows[len(rows)-1].MembershipID))
	}
	for i := range rows {
		rows[i].IsOwner = rows[i].UserID == group.OwnerID
	}
	page.Members = rows
	return page, nil
}

// Add admits a user by email. Adding an active member changes nothing;
// an invited row is activated; a banned user cannot be re-added this way.
func (s *MembershipService) Add(ctx context.Context, actor *models.User, slug string, input AddMemberInput) (*AddMemberResult, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, utils.NewInternalError("failed to start transaction", tx.Error)
	}

	group, _, err := requireAdmin(tx, actor, slug)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	var user models.User
	if err := tx.Where("email = ?", normalizeEmail(input.Email)).First(&user).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("user")
		}
		return nil, utils.NewInternalError("failed to load user", err)
	}

	existing, err := findMembership(tx, group.ID, user.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now().UTC()
	var membership *models.Membership
	switch {
	case existing != nil && existing.IsActive():
		tx.Rollback()
		return &AddMemberResult{
			Member:  memberView(existing, &user, group),
			Added:   false,
			Message: MessageAlreadyMember,
		}, nil

	case existing != nil && existing.Status == models.StatusBanned:
		tx.Rollback()
		return nil, utils.NewConflictError(utils.CodeConflict, "user is banned from this group")

	case existing != nil:
		err = tx.Model(existing).Updates(map[string]interface{}{
			"status":    models.StatusActive,
			"joined_at": now,
		}).Error
		existing.Status = models.StatusActive
		existing.JoinedAt = now
		membership = existing

	default:
		membership = &models.Membership{
			UserID:   user.ID,
			GroupID:  group.ID,
			Role:     models.RoleMember,
			Status:   models.StatusActive,
			JoinedAt: now,
		}
		if err = tx.SavePoint(savepointAddMember).Error; err != nil {
			break
		}
		err = tx.Create(membership).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent add won the unique index; report what it left
			tx.RollbackTo(savepointAddMember)
			current, findErr := findMembership(tx, group.ID, user.ID)
			tx.Rollback()
			if findErr != nil {
				return nil, findErr
			}
			if current != nil && current.IsActive() {
				return &AddMemberResult{
					Member:  memberView(current, &user, group),
					Added:   false,
					Message: MessageAlreadyMember,
				}, nil
			}
			return nil, utils.NewConflictError(utils.CodeConflict, "membership was modified concurrently, please retry")
		}
	}
	if err != nil {
		tx.Rollback()
		return nil, utils.NewInternalError("failed to save membership", err)
	}

	err = tx.Model(&models.Group{}).Where("id = ?", group.ID).
		UpdateColumn("members_count", gorm.Expr("members_count + 1")).Error
	if err != nil {
		tx.Rollback()
		return nil, utils.NewInternalError("failed to update member count", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, utils.NewInternalError("failed to commit membership", err)
	}

	utils.LogEvent("member_added", map[string]interface{}{
		"group_id": group.ID,
		"user_id":  user.ID,
		"added_by": actor.ID,
	})

	if s.notifier != nil {
		if err := s.notifier.MemberAdded(user.Email, user.Name, group.Name, actor.Name); err != nil {
			s.log.WithError(err).WithField("user_id", user.ID).Warn("Failed to send member notification")
		}
	}

	return &AddMemberResult{
		Member:  memberView(membership, &user, group),
		Added:   true,
		Message: MessageMemberAdded,
	}, nil
}

// Remove deletes a user's membership. The group owner cannot be removed.
func (s *MembershipService) Remove(ctx context.Context, actor *models.User, slug string, userID uint) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return utils.NewInternalError("failed to start transaction", tx.Error)
	}

	group, _, err := requireAdmin(tx, actor, slug)
	if err != nil {
		tx.Rollback()
		return err
	}

	if userID == group.OwnerID {
		tx.Rollback()
		return utils.NewForbiddenError("the group owner cannot be removed").WithCode(utils.CodeOwnerRemoval)
	}

	membership, err := findMembership(tx, group.ID, userID)
	if err != nil {
		tx.Rollback()
		return err
	}
	if membership == nil {
		tx.Rollback()
		return utils.NewNotFoundError("membership")
	}

	if err := tx.Delete(membership).Error; err != nil {
		tx.Rollback()
		return utils.NewInternalError("failed to remove membership", err)
	}

	if membership.IsActive() {
		err := tx.Model(&models.Group{}).Where("id = ? AND members_count > 0", group.ID).
			UpdateColumn("members_count", gorm.Expr("members_count - 1")).Error
		if err != nil {
			tx.Rollback()
			return utils.NewInternalError("failed to update member count", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return utils.NewInternalError("failed to commit membership removal", err)
	}

	utils.LogEvent("member_removed", map[string]interface{}{
		"group_id":   group.ID,
		"user_id":    userID,
		"removed_by": actor.ID,
	})
	return nil
}
