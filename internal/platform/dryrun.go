package platform

import (
	"sync"

	"go.uber.org/zap"
)

// Event kinds recorded by DryRun.
const (
	EventMove   = "move"
	EventMoveTo = "move_to"
	EventClick  = "click"
	EventScroll = "scroll"
	EventKey    = "key"
	EventType   = "type"
)

// Event is one recorded dry-run action.
type Event struct {
	Kind   string
	X, Y   int
	Button string
	Amount int
	Key    string
	Mods   []string
	Rune   rune
}

// DryRun logs what it would do and never touches the OS. It keeps a virtual
// cursor clamped to its screen so callers see consistent positions.
type DryRun struct {
	mu     sync.Mutex
	log    *zap.Logger
	w, h   int
	x, y   int
	events []Event
}

// NewDryRun starts the virtual cursor at the center of a w×h screen.
func NewDryRun(log *zap.Logger, w, h int) *DryRun {
	return &DryRun{log: log.With(zap.Bool("dry_run", true)), w: w, h: h, x: w / 2, y: h / 2}
}

// maxEvents bounds the recorded history of long sessions; the oldest half
// is dropped when it fills.
const maxEvents = 8192

func (d *DryRun) record(ev Event) {
	if len(d.events) >= maxEvents {
		d.events = append(d.events[:0], d.events[maxEvents/2:]...)
	}
	d.events = append(d.events, ev)
}

func (d *DryRun) Name() string { return string(BackendDryRun) }

func (d *DryRun) ScreenSize() (int, int, error) { return d.w, d.h, nil }

func (d *DryRun) Position() (int, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.x, d.y, nil
}

func (d *DryRun) MoveTo(x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.x, d.y = clampInt(x, 0, d.w-1), clampInt(y, 0, d.h-1)
	d.record(Event{Kind: EventMoveTo, X: d.x, Y: d.y})
	d.log.Info("move cursor", zap.Int("x", d.x), zap.Int("y", d.y))
	return nil
}

func (d *DryRun) MoveRelative(dx, dy int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.x, d.y = clampInt(d.x+dx, 0, d.w-1), clampInt(d.y+dy, 0, d.h-1)
	d.record(Event{Kind: EventMove, X: dx, Y: dy})
	d.log.Info("nudge cursor", zap.Int("dx", dx), zap.Int("dy", dy))
	return nil
}

func (d *DryRun) Click(button string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(Event{Kind: EventClick, Button: button, X: d.x, Y: d.y})
	d.log.Info("click", zap.String("button", button), zap.Int("x", d.x), zap.Int("y", d.y))
	return nil
}

func (d *DryRun) Scroll(amount int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(Event{Kind: EventScroll, Amount: amount})
	d.log.Info("scroll", zap.Int("amount", amount))
	return nil
}

func (d *DryRun) KeyTap(key string, mods ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(Event{Kind: EventKey, Key: key, Mods: append([]string(nil), mods...)})
	d.log.Info("key", zap.String("key", key), zap.Strings("mods", mods))
	return nil
}

func (d *DryRun) TypeRune(r rune) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(Event{Kind: EventType, Rune: r})
	d.log.Info("type", zap.String("rune", string(r)))
	return nil
}

func (d *DryRun) Close() error { return nil }

// Events returns a copy of everything recorded so far.
func (d *DryRun) Events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Event(nil), d.events...)
}

// Counts tallies recorded events by kind.
func (d *DryRun) Counts() map[string]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	counts := make(map[string]int)
	for _, ev := range d.events {
		counts[ev.Kind]++
	}
	return counts
}

// Typed concatenates every typed rune.
func (d *DryRun) Typed() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var rs []rune
	for _, ev := range d.events {
		if ev.Kind == EventType {
			rs = append(rs, ev.Rune)
		}
	}
	return string(rs)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
