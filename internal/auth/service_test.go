package auth

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateComparisonHops(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr error
	}{
		{
			name: "dedupe and trim",
			in:   []string{" Citra (YCH) ", "Citra (YCH)", "Saaz (Hopsteiner)"},
			want: []string{"Citra (YCH)", "Saaz (Hopsteiner)"},
		},
		{
			name:    "empty after cleaning",
			in:      []string{"", "   "},
			wantErr: ErrEmptyComparison,
		},
		{
			name:    "over the limit",
			in:      []string{"a", "b", "c", "d", "e", "f"},
			wantErr: ErrTooManyHops,
		},
		{
			name: "exactly at the limit",
			in:   []string{"a", "b", "c", "d", "e"},
			want: []string{"a", "b", "c", "d", "e"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateComparisonHops(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
