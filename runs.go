package hailstone

// Run is a stretch of identical bits. Long stretches are split into several
// runs so that Length never exceeds the cap given to GroupRuns.
type Run struct {
	Bit    Bit
	Length int
}

// MaxRunLength is the cap used when grouping trajectories for the run based
// instruments. The run sound table has one column per length up to this cap.
const MaxRunLength = 4

// GroupRuns splits bits into runs of identical bits, closing a run after
// maxLength repetitions even if more identical bits follow. maxLength < 1 is
// treated as 1.
func GroupRuns(bits []Bit, maxLength int) []Run {
	if maxLength < 1 {
		maxLength = 1
	}
	var runs []Run
	for i := 0; i < len(bits); {
		r := Run{Bit: bits[i]}
		for i < len(bits) && bits[i] == r.Bit && r.Length < maxLength {
			r.Length++
			i++
		}
		runs = append(runs, r)
	}
	return runs
}

// FirstInRunIndices returns, in ascending order, the first index of every
// maximal stretch of identical bits. The run length cap plays no role here.
func FirstInRunIndices(bits []Bit) []int {
	var indices []int
	for i := range bits {
		if i == 0 || bits[i] != bits[i-1] {
			indices = append(indices, i)
		}
	}
	return indices
}

// OnsetMask is FirstInRunIndices as a membership mask: mask[i] is true when i
// starts a new stretch.
func OnsetMask(bits []Bit) []bool {
	mask := make([]bool, len(bits))
	for _, i := range FirstInRunIndices(bits) {
		mask[i] = true
	}
	return mask
}

// Concat expands runs back to the bits they describe.
func Concat(runs []Run) []Bit {
	var bits []Bit
	for _, r := range runs {
		for j := 0; j < r.Length; j++ {
			bits = append(bits, r.Bit)
		}
	}
	return bits
}
