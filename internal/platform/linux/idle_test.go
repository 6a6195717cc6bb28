//go:build linux

package linux

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIdleSourceFallbackOrder(t *testing.T) {
	mutterDown := func(context.Context) (time.Duration, error) { return 0, errors.New("name has no owner") }
	mutterUp := func(context.Context) (time.Duration, error) { return 42 * time.Second, nil }

	tests := []struct {
		name       string
		mutter     func(context.Context) (time.Duration, error)
		xprintidle bool
		out        string
		runErr     error
		want       time.Duration
		wantCalls  []string
		wantErr    string
	}{
		{name: "mutter answers", mutter: mutterUp, xprintidle: true, want: 42 * time.Second},
		{name: "mutter down falls back", mutter: mutterDown, xprintidle: true, out: "1500", want: 1500 * time.Millisecond, wantCalls: []string{"xprintidle "}},
		{name: "no bus uses xprintidle", xprintidle: true, out: " 250\n", want: 250 * time.Millisecond, wantCalls: []string{"xprintidle "}},
		{name: "both fail", mutter: mutterDown, xprintidle: true, runErr: errors.New("exit status 1"), wantCalls: []string{"xprintidle "}, wantErr: "name has no owner\nexit status 1"},
		{name: "unparsable output", xprintidle: true, out: "idle", wantCalls: []string{"xprintidle "}, wantErr: "parse idle"},
		{name: "mutter down without xprintidle", mutter: mutterDown, wantErr: "name has no owner"},
		{name: "nothing available", wantErr: "no idle source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{out: tt.out, err: tt.runErr}
			s := &IdleSource{
				log:    zap.NewNop(),
				run:    rec.run,
				caps:   Capabilities{DisplayServer: DisplayServerX11, Xprintidle: tt.xprintidle},
				mutter: tt.mutter,
			}
			got, err := s.Idle(context.Background())
			assert.Equal(t, tt.wantCalls, rec.calls)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdleSourceCloseWithoutBus(t *testing.T) {
	s := &IdleSource{log: zap.NewNop()}
	assert.NoError(t, s.Close())
}
