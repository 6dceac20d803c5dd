package voting

// Vote maps options to non-negative vote counts. Options absent from the map
// count as zero. A single voter's quadratic cost is the sum of squared counts.
type Vote map[Option]int64

// Cost returns the quadratic credit cost of the vote: the sum over all
// entries of the squared count.
func (v Vote) Cost() int64 {
	var cost int64
	for _, n := range v {
		cost += n * n
	}
	return cost
}

// Clone returns an independent copy of the vote.
func (v Vote) Clone() Vote {
	out := make(Vote, len(v))
	for opt, n := range v {
		out[opt] = n
	}
	return out
}

// Equal reports whether two votes assign the same count to every option,
// treating absent options as zero.
func (v Vote) Equal(other Vote) bool {
	for opt, n := range v {
		if other[opt] != n {
			return false
		}
	}
	for opt, n := range other {
		if v[opt] != n {
			return false
		}
	}
	return true
}

// Result maps every option of a poll to its aggregate vote total. Untouched
// options are present with a zero total.
type Result map[Option]int64
