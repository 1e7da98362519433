package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateClockTime(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{
			name:    "valid morning time",
			value:   "07:30",
			wantErr: false,
		},
		{
			name:    "midnight",
			value:   "00:00",
			wantErr: false,
		},
		{
			name:    "last minute of day",
			value:   "23:59",
			wantErr: false,
		},
		{
			name:    "hour out of range",
			value:   "24:00",
			wantErr: true,
		},
		{
			name:    "minute out of range",
			value:   "12:60",
			wantErr: true,
		},
		{
			name:    "missing leading zero",
			value:   "7:30",
			wantErr: true,
		},
		{
			name:    "not a time",
			value:   "bedtime",
			wantErr: true,
		},
		{
			name:    "empty string",
			value:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClockTime("scheduleStart", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateClockTime(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDailyLimit(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		wantErr bool
	}{
		{
			name:    "minimum allowed",
			minutes: 1,
			wantErr: false,
		},
		{
			name:    "maximum allowed",
			minutes: 600,
			wantErr: false,
		},
		{
			name:    "typical value",
			minutes: 45,
			wantErr: false,
		},
		{
			name:    "zero rejected",
			minutes: 0,
			wantErr: true,
		},
		{
			name:    "negative rejected",
			minutes: -10,
			wantErr: true,
		},
		{
			name:    "above maximum rejected",
			minutes: 601,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDailyLimit(tt.minutes)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDailyLimit(%d) error = %v, wantErr %v", tt.minutes, err, tt.wantErr)
			}
		})
	}
}

func TestUnknownIDsError(t *testing.T) {
	err := UnknownIDsError("allowedCategoryIds", []int64{3, 9})

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Field != "allowedCategoryIds" {
		t.Errorf("field = %q, want allowedCategoryIds", verr.Field)
	}
	if !strings.Contains(verr.Message, "3, 9") {
		t.Errorf("message should list the invalid ids, got %q", verr.Message)
	}
}
