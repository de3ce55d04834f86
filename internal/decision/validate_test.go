package decision

import "testing"

func TestMissingField(t *testing.T) {
	complete := func() Request {
		return Request{
			Item:     "Shoes",
			Price:    80,
			Currency: "USD",
			Snapshot: &FinancialSnapshot{},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Request)
		want   string
	}{
		{
			name:   "complete request",
			mutate: func(r *Request) {},
			want:   "",
		},
		{
			name:   "missing item",
			mutate: func(r *Request) { r.Item = "" },
			want:   "item",
		},
		{
			name:   "zero price is missing",
			mutate: func(r *Request) { r.Price = 0 },
			want:   "price",
		},
		{
			name:   "missing currency",
			mutate: func(r *Request) { r.Currency = "" },
			want:   "currency",
		},
		{
			name:   "missing snapshot",
			mutate: func(r *Request) { r.Snapshot = nil },
			want:   "snapshot",
		},
		{
			name: "item reported before later missing fields",
			mutate: func(r *Request) {
				r.Item = ""
				r.Currency = ""
				r.Snapshot = nil
			},
			want: "item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := complete()
			tt.mutate(&req)

			field, missing := req.MissingField()
			if tt.want == "" {
				if missing {
					t.Fatalf("MissingField() = %q, want none", field)
				}
				return
			}
			if !missing || field != tt.want {
				t.Fatalf("MissingField() = %q/%v, want %q", field, missing, tt.want)
			}
		})
	}
}

func TestSavingsGoalUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{name: "number", json: `1500`, want: "1500"},
		{name: "fractional number", json: `1500.5`, want: "1500.5"},
		{name: "string", json: `"new laptop"`, want: "new laptop"},
		{name: "zero renders none", json: `0`, want: "none"},
		{name: "empty string renders none", json: `""`, want: "none"},
		{name: "null renders none", json: `null`, want: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g SavingsGoal
			if err := g.UnmarshalJSON([]byte(tt.json)); err != nil {
				t.Fatalf("UnmarshalJSON(%s) error = %v", tt.json, err)
			}
			if g.String() != tt.want {
				t.Errorf("String() = %q, want %q", g.String(), tt.want)
			}
		})
	}

	t.Run("object rejected", func(t *testing.T) {
		var g SavingsGoal
		if err := g.UnmarshalJSON([]byte(`{"amount": 5}`)); err == nil {
			t.Fatal("expected error for object savingsGoal")
		}
	})

	t.Run("absent field defaults to none", func(t *testing.T) {
		var s FinancialSnapshot
		if s.SavingsGoal.String() != "none" {
			t.Errorf("zero value = %q, want none", s.SavingsGoal.String())
		}
	})
}
