package behavior

import "time"

// minMicroGap is the floor for the spacing term of MicroInterval.
const minMicroGap = 500 * time.Millisecond

// Chunk splits text into pieces of at most size runes, in order.
func Chunk(text string, size int) []string {
	if size < 1 {
		size = 1
	}
	runes := []rune(text)
	var chunks []string
	for i := 0; i < len(runes); i += size {
		end := min(i+size, len(runes))
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// MicroInterval is the pause after each of events filler actions spread over
// window: max(0.5s, window/events) / events.
func MicroInterval(events int, window time.Duration) time.Duration {
	if events < 1 {
		events = 1
	}
	gap := max(minMicroGap, window/time.Duration(events))
	return gap / time.Duration(events)
}
