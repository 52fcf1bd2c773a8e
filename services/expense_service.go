package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tripplanner/metrics"
	"tripplanner/models"
	"tripplanner/utils"
)

type SplitInput struct {
	UserID      uint   `json:"user_id" validate:"required"`
	AmountCents *int64 `json:"amount_cents" validate:"required,gte=0,lte=100000000000"`
}

type CreateExpenseInput struct {
	PayerID     uint         `json:"payer_id" validate:"required"`
	Description string       `json:"description" validate:"max=500"`
	Category    string       `json:"category" validate:"max=100"`
	Date        string       `json:"date" validate:"required"`
	AmountCents int64        `json:"amount_cents" validate:"required,gt=0,lte=100000000000"`
	Splits      []SplitInput `json:"splits" validate:"required,min=1,max=500,dive"`
}

// SplitMismatchDetails is returned with SPLIT_SUM_MISMATCH rejections
type SplitMismatchDetails struct {
	AmountCents     int64 `json:"amount_cents"`
	SplitSumCents   int64 `json:"split_sum_cents"`
	DifferenceCents int64 `json:"difference_cents"`
}

// BalanceReport is the computed state of a group's ledger
type BalanceReport struct {
	Balances      []models.MemberBalance `json:"balances"`
	Settlements   []models.Settlement    `json:"settlements"`
	TotalNetCents int64                  `json:"total_net_cents"`
}

type ExpenseService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{db: db, log: utils.Component("expenses")}
}

// Create records an expense and its splits atomically. The splits must sum to
// the expense amount exactly and every participant must be an active member.
func (s *ExpenseService) Create(ctx context.Context, actor *models.User, slug string, input CreateExpenseInput) (*models.Expense, error) {
	db := s.db.WithContext(ctx)
	group, _, err := requireMember(db, actor, slug)
	if err != nil {
		return nil, err
	}

	date, err := utils.ParseDateTime(input.Date)
	if err != nil {
		return nil, utils.NewValidationError("date must be an RFC3339 timestamp or YYYY-MM-DD")
	}

	var sum int64
	seen := make(map[uint]bool, len(input.Splits))
	participants := []uint{input.PayerID}
	for _, split := range input.Splits {
		if seen[split.UserID] {
			return nil, utils.NewValidationError("user %d appears in more than one split", split.UserID)
		}
		seen[split.UserID] = true
		sum += *split.AmountCents
		participants = append(participants, split.UserID)
	}

	if sum != input.AmountCents {
		return nil, utils.NewConflictError(utils.CodeSplitSumMismatch, "split amounts must add up to the expense amount").
			WithDetails(SplitMismatchDetails{
				AmountCents:     input.AmountCents,
				SplitSumCents:   sum,
				DifferenceCents: input.AmountCents - sum,
			})
	}

	active, err := activeMemberIDs(db, group.ID, participants)
	if err != nil {
		return nil, err
	}
	if !active[input.PayerID] {
		return nil, utils.NewValidationError("payer must be an active member of the group")
	}
	for _, split := range input.Splits {
		if !active[split.UserID] {
			return nil, utils.NewValidationError("user %d in splits is not an active member of the group", split.UserID)
		}
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		PayerID:     input.PayerID,
		Description: input.Description,
		Category:    input.Category,
		Date:        date.UTC(),
		AmountCents: input.AmountCents,
		CreatedBy:   actor.ID,
	}
	for _, split := range input.Splits {
		expense.Splits = append(expense.Splits, models.Split{
			GroupID:     group.ID,
			UserID:      split.UserID,
			AmountCents: *split.AmountCents,
		})
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, utils.NewInternalError("failed to start transaction", tx.Error)
	}
	// Creating the expense inserts its splits through the association
	if err := tx.Create(expense).Error; err != nil {
		tx.Rollback()
		return nil, utils.NewInternalError("failed to record expense", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, utils.NewInternalError("failed to commit expense", err)
	}

	metrics.ExpensesCreated.Inc()
	utils.LogEvent("expense_created", map[string]interface{}{
		"group_id":     group.ID,
		"expense_id":   expense.ID,
		"amount_cents": expense.AmountCents,
		"splits":       len(expense.Splits),
	})
	return expense, nil
}

// List returns the group's expenses, newest date first, with their splits
func (s *ExpenseService) List(ctx context.Context, actor *models.User, slug string) ([]models.Expense, error) {
	db := s.db.WithContext(ctx)
	group, _, err := requireMember(db, actor, slug)
	if err != nil {
		return nil, err
	}

	expenses := []models.Expense{}
	err = db.Preload("Splits", func(q *gorm.DB) *gorm.DB {
		return q.Order("id ASC")
	}).
		Where("group_id = ?", group.ID).
		Order("date DESC, id DESC").
		Find(&expenses).Error
	if err != nil {
		return nil, utils.NewInternalError("failed to list expenses", err)
	}
	return expenses, nil
}

type userTotal struct {
	UserID uint
	Total  int64
}

func totalsByUser(rows []userTotal) map[uint]int64 {
	totals := make(map[uint]int64, len(rows))
	for _, row := range rows {
		totals[row.UserID] = row.Total
	}
	return totals
}

// Balances aggregates paid and owed sums per user and reports them for the
// group's active members in membership order. A non-zero total is logged,
// not rejected: it happens when splits reference members who have left.
func (s *ExpenseService) Balances(ctx context.Context, actor *models.User, slug string) (*BalanceReport, error) {
	db := s.db.WithContext(ctx)
	group, _, err := requireMember(db, actor, slug)
	if err != nil {
		return nil, err
	}

	var paidRows []userTotal
	err = db.Model(&models.Expense{}).
		Select("payer_id AS user_id, COALESCE(SUM(amount_cents), 0) AS total").
		Where("group_id = ?", group.ID).
		Group("payer_id").
		Scan(&paidRows).Error
	if err != nil {
		return nil, utils.NewInternalError("failed to aggregate payments", err)
	}

	var owedRows []userTotal
	err = db.Table("splits").
		Select("splits.user_id AS user_id, COALESCE(SUM(splits.amount_cents), 0) AS total").
		Joins("JOIN expenses ON expenses.id = splits.expense_id AND expenses.deleted_at IS NULL").
		Where("splits.group_id = ?", group.ID).
		Group("splits.user_id").
		Scan(&owedRows).Error
	if err != nil {
		return nil, utils.NewInternalError("failed to aggregate splits", err)
	}

	members := []models.UserSummary{}
	err = db.Table("memberships").
		Select("users.id AS id, users.name AS name, users.email AS email").
		Joins("JOIN users ON users.id = memberships.user_id AND users.deleted_at IS NULL").
		Where("memberships.group_id = ? AND memberships.status = ?", group.ID, models.StatusActive).
		Order("memberships.id ASC").
		Scan(&members).Error
	if err != nil {
		return nil, utils.NewInternalError("failed to load members", err)
	}

	balances, total := utils.ComputeBalances(members, totalsByUser(paidRows), totalsByUser(owedRows))
	if total != 0 {
		metrics.BalanceDrift.Inc()
		s.log.WithFields(logrus.Fields{
			"group_id":        group.ID,
			"total_net_cents": total,
		}).Warn("Group balances do not sum to zero")
	}

	return &BalanceReport{
		Balances:      balances,
		Settlements:   utils.SuggestSettlements(balances),
		TotalNetCents: total,
	}, nil
}
