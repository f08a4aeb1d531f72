package ringbuf

import (
	"fmt"

	"github.com/c360/streamkit/errors"
)

// PolicyName names a DropPolicy in configuration files.
type PolicyName string

const (
	// PolicyBounded selects DropBounded.
	PolicyBounded PolicyName = "bounded"

	// PolicyAlways selects DropAlways.
	PolicyAlways PolicyName = "always"
)

// Config contains configuration for ring buffer creation.
type Config struct {
	// ItemSize is the size in bytes of each slot.
	ItemSize int `json:"item_size" yaml:"item_size"`

	// Capacity is the number of slots in the ring.
	Capacity int `json:"capacity" yaml:"capacity"`

	// DropPolicy selects the read drop behavior for slots contested with the
	// writer. An empty value selects "bounded".
	DropPolicy PolicyName `json:"drop_policy" yaml:"drop_policy"`

	// ReadDropLimit is the consecutive-sacrifice limit for the bounded
	// policy. Zero disables suppression.
	ReadDropLimit int `json:"read_drop_limit" yaml:"read_drop_limit"`
}

// DefaultConfig returns a default ring buffer configuration.
func DefaultConfig() Config {
	return Config{
		ItemSize:      4096,
		Capacity:      64,
		DropPolicy:    PolicyBounded,
		ReadDropLimit: DefaultReadDropLimit,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.ItemSize < 1 {
		return errors.WrapInvalid(errors.ErrInvalidData, "ringbuf", "Validate",
			fmt.Sprintf("item_size must be at least 1, got %d", c.ItemSize))
	}

	if c.Capacity < 1 {
		return errors.WrapInvalid(errors.ErrInvalidData, "ringbuf", "Validate",
			fmt.Sprintf("capacity must be at least 1, got %d", c.Capacity))
	}

	switch c.DropPolicy {
	case "", PolicyBounded, PolicyAlways:
		// No additional validation needed
	default:
		return errors.WrapInvalid(errors.ErrInvalidData, "ringbuf", "Validate",
			fmt.Sprintf("unknown drop policy: %s", c.DropPolicy))
	}

	if c.ReadDropLimit < 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "ringbuf", "Validate",
			fmt.Sprintf("read_drop_limit must not be negative, got %d", c.ReadDropLimit))
	}

	return nil
}

// Policy returns the DropPolicy the configuration names.
func (c Config) Policy() DropPolicy {
	if c.DropPolicy == PolicyAlways {
		return DropAlways
	}
	return DropBounded
}

// NewFromConfig creates a ring buffer based on the provided configuration.
// Additional functional options can be passed to configure metrics, logging, etc.
func NewFromConfig(config Config, options ...Option) (*RingBuffer, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "ringbuf", "NewFromConfig", "config validation failed")
	}

	options = append(options,
		WithDropPolicy(config.Policy()),
		WithReadDropLimit(config.ReadDropLimit),
	)

	return New(config.ItemSize, config.Capacity, options...)
}
