package timetable

// Block is a run of consecutive periods sharing one class.
type Block struct {
	Start  Period
	Length int
	Class  Class
}

// End returns the last period covered by the block.
func (b Block) End() Period {
	return b.Start + Period(b.Length) - 1
}

// Compress merges maximal runs of consecutive periods holding equal classes.
// Gaps are merged like any other class; use WithoutGaps to drop them.
func Compress(day []PeriodClass) []Block {
	out := make([]Block, 0, len(day))
	for _, pc := range day {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.End()+1 == pc.Period && last.Class.Equal(pc.Class) {
				last.Length++
				continue
			}
		}
		out = append(out, Block{Start: pc.Period, Length: 1, Class: pc.Class})
	}
	return out
}

// Expand is the inverse of Compress.
func Expand(blocks []Block) []PeriodClass {
	out := make([]PeriodClass, 0)
	for _, b := range blocks {
		for i := 0; i < b.Length; i++ {
			out = append(out, PeriodClass{Period: b.Start + Period(i), Class: b.Class})
		}
	}
	return out
}

// WithoutGaps drops gap blocks, keeping order.
func WithoutGaps(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if !b.Class.IsGap() {
			out = append(out, b)
		}
	}
	return out
}
