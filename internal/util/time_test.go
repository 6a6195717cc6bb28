package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeStringWithNow(t *testing.T) {
	now := time.Date(2024, 6, 3, 8, 15, 0, 0, time.Local)
	at := func(h, m int) time.Time { return time.Date(2024, 6, 3, h, m, 0, 0, time.Local) }

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "17:30", want: at(17, 30)},
		{in: "00:00", want: at(0, 0)},
		{in: "09:05", want: at(9, 5)},
		{in: " 23:59 ", want: at(23, 59)},
		{in: "5:30PM", want: at(17, 30)},
		{in: "5:30 pm", want: at(17, 30)},
		{in: "12:00AM", want: at(0, 0)},
		{in: "12:15 PM", want: at(12, 15)},
		{in: "06:45am", want: at(6, 45)},
		{in: "", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "17:60", wantErr: true},
		{in: "13:00PM", wantErr: true},
		{in: "half past five", wantErr: true},
		{in: "1730", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeStringWithNow(tt.in, now)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Valid formats")
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseTimeStringIsToday(t *testing.T) {
	got, err := ParseTimeString("10:00")
	require.NoError(t, err)
	now := time.Now()
	assert.Equal(t, now.YearDay(), got.YearDay())
	assert.Equal(t, 10, got.Hour())
	assert.Zero(t, got.Minute())
}

func TestDurationUntil(t *testing.T) {
	now := time.Date(2024, 6, 3, 16, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		in   string
		want time.Duration
	}{
		{name: "later today", in: "17:30", want: 90 * time.Minute},
		{name: "12 hour clock", in: "6:00PM", want: 2 * time.Hour},
		{name: "passed rolls to tomorrow", in: "09:00", want: 17 * time.Hour},
		{name: "exactly now rolls to tomorrow", in: "16:00", want: 24 * time.Hour},
		{name: "one minute ahead", in: "16:01", want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DurationUntil(tt.in, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DurationUntil("noon-ish", now)
	assert.Error(t, err)
}
