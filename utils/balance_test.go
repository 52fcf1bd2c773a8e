package utils

import (
	"testing"

	"tripplanner/models"
)

func TestComputeBalances(t *testing.T) {
	members := []models.UserSummary{
		{ID: 1, Name: "Alice"},
		{ID: 2, Name: "Bob"},
		{ID: 3, Name: "Carol"},
	}
	paid := map[uint]int64{1: 900}
	owed := map[uint]int64{1: 300, 2: 300, 3: 300}

	balances, total := ComputeBalances(members, paid, owed)
	if total != 0 {
		t.Errorf("total: expected 0, got %d", total)
	}

	expected := []int64{600, -300, -300}
	for i, b := range balances {
		if b.UserID != members[i].ID {
			t.Errorf("position %d: expected user %d, got %d", i, members[i].ID, b.UserID)
		}
		if b.NetCents != expected[i] {
			t.Errorf("user %d: expected net %d, got %d", b.UserID, expected[i], b.NetCents)
		}
	}

	t.Run("outside participants leave a residue", func(t *testing.T) {
		_, total := ComputeBalances(members[:2], paid, owed)
		if total != 300 {
			t.Errorf("total: expected 300, got %d", total)
		}
	})

	t.Run("members without activity", func(t *testing.T) {
		balances, total := ComputeBalances(members, nil, nil)
		if total != 0 || len(balances) != 3 {
			t.Fatalf("expected 3 zero balances, got %d with total %d", len(balances), total)
		}
		for _, b := range balances {
			if b.PaidCents != 0 || b.OwedCents != 0 || b.NetCents != 0 {
				t.Errorf("user %d: expected zeros, got %+v", b.UserID, b)
			}
		}
	})
}

func TestSuggestSettlements(t *testing.T) {
	balances := []models.MemberBalance{
		{UserID: 1, NetCents: 700},
		{UserID: 2, NetCents: -400},
		{UserID: 3, NetCents: -200},
		{UserID: 4, NetCents: 100},
		{UserID: 5, NetCents: -200},
		{UserID: 6, NetCents: 0},
	}

	settlements := SuggestSettlements(balances)
	if len(settlements) > len(balances)-1 {
		t.Errorf("expected at most %d transfers, got %d", len(balances)-1, len(settlements))
	}

	net := map[uint]int64{}
	for _, s := range settlements {
		if s.AmountCents <= 0 {
			t.Errorf("non-positive transfer %+v", s)
		}
		net[s.FromUserID] += s.AmountCents
		net[s.ToUserID] -= s.AmountCents
	}
	for _, b := range balances {
		if net[b.UserID]+b.NetCents != 0 {
			t.Errorf("user %d not settled: balance %d, transfers %d", b.UserID, b.NetCents, net[b.UserID])
		}
	}

	if first := settlements[0]; first.FromUserID != 2 || first.ToUserID != 1 || first.AmountCents != 400 {
		t.Errorf("expected largest debtor to pay largest creditor first, got %+v", first)
	}

	if got := SuggestSettlements(nil); len(got) != 0 {
		t.Errorf("expected no settlements for empty input, got %d", len(got))
	}
}
