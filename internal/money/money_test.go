package money

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Amount
		wantErr error
	}{
		{name: "integer", input: "40", want: 4000},
		{name: "one decimal", input: "40.5", want: 4050},
		{name: "two decimals", input: "0.01", want: 1},
		{name: "trailing zeros beyond scale", input: "12.500", want: 1250},
		{name: "whitespace", input: "  7.25 ", want: 725},
		{name: "negative", input: "-3.10", want: -310},
		{name: "max", input: "99999999.99", want: MaxAmount},
		{name: "too precise", input: "1.005", wantErr: ErrTooPrecise},
		{name: "too large", input: "100000000.00", wantErr: ErrTooLarge},
		{name: "empty", input: "", wantErr: ErrInvalidAmount},
		{name: "garbage", input: "abc", wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestAmountString(t *testing.T) {
	tests := map[Amount]string{
		0:     "0.00",
		1:     "0.01",
		6000:  "60.00",
		12345: "123.45",
		-250:  "-2.50",
	}
	for amount, want := range tests {
		if got := amount.String(); got != want {
			t.Errorf("Amount(%d).String() = %q, want %q", int64(amount), got, want)
		}
	}
}

func TestAmountJSON(t *testing.T) {
	var body struct {
		Amount Amount `json:"amount"`
	}

	for _, raw := range []string{`{"amount":"40.00"}`, `{"amount":40}`, `{"amount":40.0}`} {
		if err := json.Unmarshal([]byte(raw), &body); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if body.Amount != 4000 {
			t.Errorf("unmarshal %s = %d, want 4000", raw, body.Amount)
		}
	}

	if err := json.Unmarshal([]byte(`{"amount":"0.001"}`), &body); err == nil {
		t.Error("expected error for three decimal places")
	}
	if err := json.Unmarshal([]byte(`{"amount":null}`), &body); err == nil {
		t.Error("expected error for null amount")
	}

	out, err := json.Marshal(struct {
		Amount Amount `json:"amount"`
	}{Amount: 6000})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"amount":"60.00"}` {
		t.Errorf("marshal = %s", out)
	}
}

func TestAmountFloat64(t *testing.T) {
	if got := Amount(4050).Float64(); got != 40.5 {
		t.Errorf("Float64() = %v, want 40.5", got)
	}
}
