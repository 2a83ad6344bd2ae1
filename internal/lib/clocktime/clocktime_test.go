package clocktime

import (
	"testing"
	"time"
)

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:00", want: 540},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMinutes(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMinutes(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMinutes(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCombine(t *testing.T) {
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	got, err := Combine(date, "14:30")
	if err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}
	want := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Combine = %v, want %v", got, want)
	}

	if _, err := Combine(date, "25:00"); err == nil {
		t.Error("expected error for out of range time")
	}
}
