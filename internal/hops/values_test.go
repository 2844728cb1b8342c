package hops

import "testing"

func TestParseValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
	}{
		{"plain number", 12.5, 12.5},
		{"integer", 4, 4},
		{"numeric string", "3.2", 3.2},
		{"percent suffix", "11%", 11},
		{"oil with unit", "2.1 mL/100g", 2.1},
		{"empty string", "", 0},
		{"pure unit string", "mL/g", 0},
		// An unsplit range strips to "4.57.0", which must read as unknown
		// rather than a truncated prefix.
		{"unsplit range string", "4.5 - 7.0", 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseValue(tt.input); got != tt.expected {
				t.Errorf("ParseValue(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAverageValue(t *testing.T) {
	tests := []struct {
		name     string
		from, to any
		expected float64
	}{
		{"both set", 10.0, 14.0, 12},
		{"both zero means unknown", 0.0, 0.0, 0},
		{"missing to uses from", 8.0, 0.0, 8},
		{"missing from uses to", 0.0, 6.0, 6},
		{"string inputs", "11", "13", 12},
		{"oil strings with units", "1.5 mL/100g", "2.5 mL/100g", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AverageValue(tt.from, tt.to); got != tt.expected {
				t.Errorf("AverageValue(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

// The midpoint law: when both bounds are nonzero the result is the exact
// midpoint of the parsed values.
func TestAverageValueMidpointLaw(t *testing.T) {
	pairs := [][2]any{{"4.5", 9.0}, {1.0, 2.0}, {"12%", "14%"}}
	for _, p := range pairs {
		f, to := ParseValue(p[0]), ParseValue(p[1])
		if got := AverageValue(p[0], p[1]); got != (f+to)/2 {
			t.Errorf("AverageValue(%v, %v) = %v, want %v", p[0], p[1], got, (f+to)/2)
		}
	}
}

func TestFormatRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to any
		unit     string
		expected string
	}{
		{"both zero", 0.0, 0.0, "%", "N/A"},
		{"equal bounds", 5.0, 5.0, "%", "5%"},
		{"missing to", 4.0, 0.0, "%", "4%"},
		{"missing from", 0.0, 7.5, "%", "7.5%"},
		{"full range", 11.0, 13.0, "%", "11 - 13%"},
		{"oil unit", 1.5, 2.5, " mL/100g", "1.5 - 2.5 mL/100g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRange(tt.from, tt.to, tt.unit); got != tt.expected {
				t.Errorf("FormatRange(%v, %v, %q) = %q, want %q", tt.from, tt.to, tt.unit, got, tt.expected)
			}
		})
	}
}
