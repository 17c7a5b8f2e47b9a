package validation

import (
	"testing"
	"time"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid email", email: "user@example.com", wantErr: false},
		{name: "valid with plus", email: "user+tag@example.co.uk", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "missing domain", email: "user@", wantErr: true},
		{name: "missing at", email: "userexample.com", wantErr: true},
		{name: "whitespace only", email: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid password", password: "longenough", wantErr: false},
		{name: "empty", password: "", wantErr: true},
		{name: "too short", password: "short", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestParseISOTime(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339 with zone",
			value: "2026-03-01T09:00:00Z",
			want:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name:  "no zone treated as UTC",
			value: "2026-03-01T09:00:00",
			want:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			value: "2026-03-01",
			want:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{name: "empty", value: "", wantErr: true},
		{name: "garbage", value: "not-a-date", wantErr: true},
		{name: "partial", value: "2026-03", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseISOTime("learning_date", tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseISOTime(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseISOTime(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
