package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/molodeztom/expense-splitting-app/internal/models"
)

var (
	alice   = models.Member{ID: "a", Name: "Alice"}
	bob     = models.Member{ID: "b", Name: "Bob"}
	charlie = models.Member{ID: "c", Name: "Charlie"}
	diana   = models.Member{ID: "d", Name: "Diana"}
)

func sumSplits(splits []models.Split) float64 {
	var total float64
	for _, s := range splits {
		total += s.Amount
	}
	return total
}

func TestComputeSplits(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		members      []models.Member
		policy       SplitPolicy
		wantErr      bool
		validateFunc func(t *testing.T, splits []models.Split)
	}{
		{
			name:    "equal split between two",
			amount:  100,
			members: []models.Member{alice, bob},
			policy:  EqualSplit{},
			validateFunc: func(t *testing.T, splits []models.Split) {
				for _, s := range splits {
					if math.Abs(s.Amount-50) > Epsilon {
						t.Errorf("%s share = %v, want 50", s.UserID, s.Amount)
					}
				}
			},
		},
		{
			name:    "equal split keeps full precision",
			amount:  100,
			members: []models.Member{alice, bob, charlie},
			policy:  EqualSplit{},
			validateFunc: func(t *testing.T, splits []models.Split) {
				for _, s := range splits {
					if s.Amount != 100.0/3 {
						t.Errorf("%s share = %v, want unrounded %v", s.UserID, s.Amount, 100.0/3)
					}
				}
				if math.Abs(sumSplits(splits)-100) > Epsilon {
					t.Errorf("sum = %v, want ~100", sumSplits(splits))
				}
			},
		},
		{
			name:    "percentage 70/30 of 200",
			amount:  200,
			members: []models.Member{alice, bob},
			policy:  PercentageSplit{Shares: []Share{{"a", 70}, {"b", 30}}},
			validateFunc: func(t *testing.T, splits []models.Split) {
				if math.Abs(splits[0].Amount-140) > Epsilon {
					t.Errorf("Alice = %v, want 140", splits[0].Amount)
				}
				if math.Abs(splits[1].Amount-60) > Epsilon {
					t.Errorf("Bob = %v, want 60", splits[1].Amount)
				}
			},
		},
		{
			name:    "percentage within tolerance",
			amount:  90,
			members: []models.Member{alice, bob, charlie},
			policy:  PercentageSplit{Shares: []Share{{"a", 33.33}, {"b", 33.33}, {"c", 33.34}}},
			validateFunc: func(t *testing.T, splits []models.Split) {
				if math.Abs(sumSplits(splits)-90) > Epsilon {
					t.Errorf("sum = %v, want 90", sumSplits(splits))
				}
			},
		},
		{
			name:    "percentage missing member defaults to zero",
			amount:  50,
			members: []models.Member{alice, bob},
			policy:  PercentageSplit{Shares: []Share{{"a", 100}}},
			validateFunc: func(t *testing.T, splits []models.Split) {
				if len(splits) != 2 {
					t.Fatalf("expected 2 splits, got %d", len(splits))
				}
				if splits[1].UserID != "b" || splits[1].Amount != 0 {
					t.Errorf("Bob split = %+v, want zero", splits[1])
				}
			},
		},
		{
			name:    "percentage sum off by more than a cent",
			amount:  100,
			members: []models.Member{alice, bob},
			policy:  PercentageSplit{Shares: []Share{{"a", 60}, {"b", 30}}},
			wantErr: true,
		},
		{
			name:    "percentage out of range",
			amount:  100,
			members: []models.Member{alice, bob},
			policy:  PercentageSplit{Shares: []Share{{"a", 120}, {"b", -20}}},
			wantErr: true,
		},
		{
			name:    "custom amounts",
			amount:  100,
			members: []models.Member{alice, bob, charlie},
			policy:  CustomSplit{Shares: []Share{{"a", 20}, {"b", 30.5}, {"c", 49.5}}},
			validateFunc: func(t *testing.T, splits []models.Split) {
				want := []float64{20, 30.5, 49.5}
				for i, s := range splits {
					if s.Amount != want[i] {
						t.Errorf("split %d = %v, want %v", i, s.Amount, want[i])
					}
				}
			},
		},
		{
			name:    "custom within a cent",
			amount:  100,
			members: []models.Member{alice, bob},
			policy:  CustomSplit{Shares: []Share{{"a", 50}, {"b", 49.995}}},
			validateFunc: func(t *testing.T, splits []models.Split) {
				if math.Abs(sumSplits(splits)-100) > Epsilon {
					t.Errorf("sum = %v", sumSplits(splits))
				}
			},
		},
		{
			name:    "custom sum 99.98 against 100",
			amount:  100,
			members: []models.Member{alice, bob},
			policy:  CustomSplit{Shares: []Share{{"a", 50}, {"b", 49.98}}},
			wantErr: true,
		},
		{
			name:    "custom negative amount",
			amount:  10,
			members: []models.Member{alice, bob},
			policy:  CustomSplit{Shares: []Share{{"a", 15}, {"b", -5}}},
			wantErr: true,
		},
		{
			name:    "share for non-member",
			amount:  10,
			members: []models.Member{alice},
			policy:  CustomSplit{Shares: []Share{{"a", 5}, {"z", 5}}},
			wantErr: true,
		},
		{
			name:    "duplicate share",
			amount:  10,
			members: []models.Member{alice, bob},
			policy:  CustomSplit{Shares: []Share{{"a", 5}, {"a", 5}}},
			wantErr: true,
		},
		{
			name:    "zero amount",
			amount:  0,
			members: []models.Member{alice},
			policy:  EqualSplit{},
			wantErr: true,
		},
		{
			name:    "no members",
			amount:  10,
			members: nil,
			policy:  EqualSplit{},
			wantErr: true,
		},
		{
			name:    "nil policy",
			amount:  10,
			members: []models.Member{alice},
			policy:  nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := ComputeSplits(tt.amount, tt.members, tt.policy)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ComputeSplits() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSplit) {
					t.Errorf("expected ErrInvalidSplit, got %v", err)
				}
				return
			}
			if len(splits) != len(tt.members) {
				t.Fatalf("expected %d splits, got %d", len(tt.members), len(splits))
			}
			for i, s := range splits {
				if s.UserID != tt.members[i].ID {
					t.Errorf("split %d is for %s, want %s", i, s.UserID, tt.members[i].ID)
				}
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, splits)
			}
		})
	}
}

// A custom split summing to 99.99 against 100.00 is rejected.
func TestComputeSplits_CustomShortfall(t *testing.T) {
	_, err := ComputeSplits(100.00, []models.Member{alice, bob}, CustomSplit{
		Shares: []Share{{"a", 99.99}, {"b", 0}},
	})
	if !errors.Is(err, ErrInvalidSplit) {
		t.Fatalf("expected ErrInvalidSplit, got %v", err)
	}
}

func TestPolicyFor(t *testing.T) {
	shares := []Share{{"a", 100}}

	tests := []struct {
		method  models.SplitMethod
		want    models.SplitMethod
		wantErr bool
	}{
		{models.SplitEqual, models.SplitEqual, false},
		{models.SplitPercentage, models.SplitPercentage, false},
		{models.SplitCustom, models.SplitCustom, false},
		{"weighted", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			policy, err := PolicyFor(tt.method, shares)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PolicyFor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if policy.Method() != tt.want {
				t.Errorf("Method() = %s, want %s", policy.Method(), tt.want)
			}
		})
	}
}
