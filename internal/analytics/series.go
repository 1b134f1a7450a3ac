package analytics

// Series is a running sum plus one history entry per contributing session.
type Series struct {
	Sum     float64   `json:"sum"`
	History []float64 `json:"history"`
}

func (s *Series) append(v float64) {
	s.Sum += v
	s.History = append(s.History, v)
}

func (s Series) clone() Series {
	return Series{Sum: s.Sum, History: append([]float64(nil), s.History...)}
}

// Mean is the average history entry, or zero for an empty series.
func (s Series) Mean() float64 {
	if len(s.History) == 0 {
		return 0
	}
	return s.Sum / float64(len(s.History))
}

// Trend is the least-squares slope of the history against its index:
// the average change per session. Fewer than two entries give zero.
func (s Series) Trend() float64 {
	n := float64(len(s.History))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range s.History {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// DefinitionTotals are the muscle-group-independent totals of one workout
// definition. Elapsed is in seconds.
type DefinitionTotals struct {
	Reps    Series `json:"reps"`
	Weight  Series `json:"weight"`
	Elapsed Series `json:"elapsed_sec"`
}

// ExerciseTotals are the muscle-group-independent totals of one exercise.
type ExerciseTotals struct {
	Reps   Series `json:"reps"`
	Weight Series `json:"weight"`
}
