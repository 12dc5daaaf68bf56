package tracker

import "github.com/vsariola/hailstone"

// Event is a sound triggered by one loop of a sequence. Step and Length are in
// sequencer steps (sixteenth notes).
type Event struct {
	Step   int
	Length int
	Sound  hailstone.Sound
}

// Pattern lists the events of one loop of bits as the player would trigger
// them with the given instrument. The loop is len(bits) steps long.
func Pattern(bits []hailstone.Bit, instr hailstone.Instrument) []Event {
	var events []Event
	switch instr.Mode() {
	case hailstone.ModeRuns:
		step := 0
		for _, r := range hailstone.GroupRuns(bits, hailstone.MaxRunLength) {
			events = append(events, Event{Step: step, Length: r.Length, Sound: hailstone.RunSound(r)})
			step += r.Length
		}
	case hailstone.ModeOnsets:
		onsets := hailstone.FirstInRunIndices(bits)
		for i, start := range onsets {
			end := len(bits)
			if i+1 < len(onsets) {
				end = onsets[i+1]
			}
			events = append(events, Event{Step: start, Length: end - start, Sound: hailstone.BitSound(bits[start])})
		}
	default:
		for i, b := range bits {
			events = append(events, Event{Step: i, Length: 1, Sound: hailstone.BitSound(b)})
		}
	}
	return events
}
