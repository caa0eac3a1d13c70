package ledger

import "testing"

func TestClassifyKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Kind
	}{
		{input: "Actual", want: KindActual},
		{input: " actual ", want: KindActual},
		{input: "Forecast", want: KindForecast},
		{input: "", want: KindForecast},
	}

	for _, tc := range tests {
		if got := ClassifyKind(tc.input); got != tc.want {
			t.Fatalf("ClassifyKind(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestActualOnly(t *testing.T) {
	t.Parallel()

	rows := []RevenueRow{
		{Client: "X", Kind: KindActual},
		{Client: "Y", Kind: KindForecast},
		{Client: "Z", Kind: KindActual},
	}

	got := ActualOnly(rows)
	if len(got) != 2 || got[0].Client != "X" || got[1].Client != "Z" {
		t.Fatalf("unexpected rows: %+v", got)
	}
	if len(rows) != 3 {
		t.Fatalf("input must not change")
	}
}

func TestRevenueRowAmount(t *testing.T) {
	t.Parallel()

	row := RevenueRow{Client: "X", Months: map[string]string{"Marzo": "€ 1.000,00", "Aprile": "n/a"}}
	if got := row.Amount("Marzo"); got != 1000 {
		t.Fatalf("expected 1000, got %v", got)
	}
	if got := row.Amount("Aprile"); got != 0 {
		t.Fatalf("expected 0 for garbled cell, got %v", got)
	}
	if got := row.Amount("Maggio"); got != 0 {
		t.Fatalf("expected 0 for missing cell, got %v", got)
	}
	if got := row.Total([]string{"Marzo", "Aprile", "Maggio"}); got != 1000 {
		t.Fatalf("expected total 1000, got %v", got)
	}
}

func TestCompensation(t *testing.T) {
	t.Parallel()

	comp := Compensation{}
	comp.Add("A", "Marzo", 300)
	comp.Add("A", "Marzo", 50)
	comp.Add("B", "Aprile", -20)

	if got := comp.Pay("A", "Marzo"); got != 350 {
		t.Fatalf("expected duplicate rows summed to 350, got %v", got)
	}
	if got := comp.Pay("B", "Aprile"); got != -20 {
		t.Fatalf("expected negative adjustment to pass through, got %v", got)
	}
	if got := comp.Pay("C", "Marzo"); got != 0 {
		t.Fatalf("expected 0 for unknown collaborator, got %v", got)
	}
	if got := comp.PayInMonths("A", []string{"Marzo", "Aprile"}); got != 350 {
		t.Fatalf("expected 350, got %v", got)
	}
	names := comp.Collaborators()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Fatalf("unexpected collaborators: %v", names)
	}
}
