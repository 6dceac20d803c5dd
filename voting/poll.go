package voting

import (
	"encoding/json"
	"fmt"
)

// Option is an opaque short identifier for a selectable choice, unique
// within a poll.
type Option string

// PollOption pairs an option with its human-readable description.
type PollOption struct {
	Option      Option `json:"option"`
	Description string `json:"description"`
}

// Poll is an ordered sequence of options with descriptions. A poll is
// immutable once created; the option order fixes the ballot wire layout.
type Poll struct {
	options []PollOption
	index   map[Option]int
}

// NewPoll creates a poll from ordered (option, description) pairs.
// Options must be unique; descriptions are informational only.
func NewPoll(options []PollOption) (*Poll, error) {
	index := make(map[Option]int, len(options))
	for i, opt := range options {
		if _, dup := index[opt.Option]; dup {
			return nil, fmt.Errorf("duplicate option %q", opt.Option)
		}
		index[opt.Option] = i
	}

	owned := make([]PollOption, len(options))
	copy(owned, options)

	return &Poll{options: owned, index: index}, nil
}

// Options returns the poll's options in poll order.
func (p *Poll) Options() []PollOption {
	out := make([]PollOption, len(p.options))
	copy(out, p.options)
	return out
}

// Has reports whether the option belongs to this poll.
func (p *Poll) Has(opt Option) bool {
	_, ok := p.index[opt]
	return ok
}

// Len returns the number of options in the poll.
func (p *Poll) Len() int {
	return len(p.options)
}

// MarshalJSON serializes the poll as its ordered option list.
func (p *Poll) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.options)
}

// UnmarshalJSON restores a poll from its ordered option list.
func (p *Poll) UnmarshalJSON(data []byte) error {
	var options []PollOption
	if err := json.Unmarshal(data, &options); err != nil {
		return err
	}

	restored, err := NewPoll(options)
	if err != nil {
		return err
	}

	*p = *restored
	return nil
}
