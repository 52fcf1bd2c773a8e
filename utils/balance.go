package utils

import (
	"sort"

	"tripplanner/models"
)

// ComputeBalances derives each member's net position from aggregated paid and
// owed totals. Only the given members are reported, in the given order; sums
// belonging to anyone else (for example removed members) are ignored. The
// second return value is the total of the reported net amounts, which is zero
// unless such outside participants exist.
func ComputeBalances(members []models.UserSummary, paid, owed map[uint]int64) ([]models.MemberBalance, int64) {
	balances := make([]models.MemberBalance, 0, len(members))
	var total int64

	for _, m := range members {
		p := paid[m.ID]
		o := owed[m.ID]
		net := p - o
		total += net

		balances = append(balances, models.MemberBalance{
			UserID:    m.ID,
			Name:      m.Name,
			Email:     m.Email,
			PaidCents: p,
			OwedCents: o,
			NetCents:  net,
		})
	}

	return balances, total
}

// SuggestSettlements matches debtors with creditors greedily, largest amounts
// first, producing at most len(balances)-1 transfers. Amounts are whole cents so
// no rounding tolerance is needed.
func SuggestSettlements(balances []models.MemberBalance) []models.Settlement {
	type position struct {
		userID uint
		amount int64
	}

	var creditors, debtors []position
	for _, b := range balances {
		switch {
		case b.NetCents > 0:
			creditors = append(creditors, position{b.UserID, b.NetCents})
		case b.NetCents < 0:
			debtors = append(debtors, position{b.UserID, -b.NetCents})
		}
	}

	byAmount := func(list []position) func(i, j int) bool {
		return func(i, j int) bool {
			if list[i].amount != list[j].amount {
				return list[i].amount > list[j].amount
			}
			return list[i].userID < list[j].userID
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	settlements := []models.Settlement{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}

		settlements = append(settlements, models.Settlement{
			FromUserID:  debtors[i].userID,
			ToUserID:    creditors[j].userID,
			AmountCents: amount,
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount
		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}

	return settlements
}
