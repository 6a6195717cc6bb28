package keepalive

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestCleanupManager(t *testing.T) {
	tests := []struct {
		name    string
		fns     []func() error
		wantErr error
		errText string
	}{
		{name: "empty"},
		{
			name: "all succeed",
			fns:  []func() error{func() error { return nil }, func() error { return nil }},
		},
		{
			name:    "one fails",
			fns:     []func() error{func() error { return nil }, func() error { return errors.New("busy") }},
			errText: "busy",
		},
		{
			name:    "panic is recovered",
			fns:     []func() error{func() error { panic("boom") }},
			errText: "panic: boom",
		},
		{
			name:    "timeout",
			fns:     []func() error{func() error { time.Sleep(200 * time.Millisecond); return nil }},
			wantErr: ErrCleanupTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm := NewCleanupManager(50*time.Millisecond, nil)
			for i, fn := range tt.fns {
				cm.RegisterFunc(string(rune('a'+i)), fn)
			}
			err := cm.Execute()
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				assert.NoError(t, err)
			}
			if tt.name == "timeout" {
				// let the abandoned cleanup finish before goleak runs
				time.Sleep(250 * time.Millisecond)
			}
		})
	}
}

func TestCleanupRunsOnceInReverse(t *testing.T) {
	cm := NewCleanupManager(time.Second, nil)
	var order []string
	cm.RegisterFunc("injector", func() error { order = append(order, "injector"); return nil })
	cm.RegisterCloser("watcher", closerFunc(func() error { order = append(order, "watcher"); return nil }))

	require.NoError(t, cm.Execute())
	require.NoError(t, cm.Execute())
	assert.Equal(t, []string{"watcher", "injector"}, order)
}

func TestCleanupClear(t *testing.T) {
	cm := NewCleanupManager(time.Second, nil)
	called := false
	cm.RegisterFunc("x", func() error { called = true; return nil })
	cm.Clear()
	require.NoError(t, cm.Execute())
	assert.False(t, called)
}
