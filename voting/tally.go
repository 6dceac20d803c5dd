package voting

import "fmt"

// Sum aggregates a batch of votes into per-option totals, in poll order.
// An option absent from a given vote counts as zero. Fails with ErrEmptyBatch
// if the batch is empty or the poll has no options.
func Sum(poll *Poll, votes []Vote) (Result, error) {
	if len(votes) == 0 {
		return nil, fmt.Errorf("%w: empty vote batch", ErrEmptyBatch)
	}
	if poll.Len() == 0 {
		return nil, fmt.Errorf("%w: poll has no options", ErrEmptyBatch)
	}

	result := make(Result, poll.Len())
	for _, opt := range poll.Options() {
		var total int64
		for _, vote := range votes {
			total += vote[opt.Option]
		}
		result[opt.Option] = total
	}

	return result, nil
}

// Tally validates every vote in input order, failing fast on the first
// invalid one, then sums the batch. There is no partial-success mode: either
// every vote in the batch is valid or the whole call fails.
func (r Rules) Tally(poll *Poll, votes []Vote) (Result, error) {
	for i, vote := range votes {
		if _, err := r.Validate(poll, vote); err != nil {
			return nil, fmt.Errorf("vote %d: %w", i, err)
		}
	}
	return Sum(poll, votes)
}
