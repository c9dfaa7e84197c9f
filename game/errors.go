package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid board configuration")
	ErrInvalidOperation     = errors.New("invalid board operation")
)

// ConfigurationError describes board parameters that cannot produce a game
type ConfigurationError struct {
	Rows, Columns, Mines int
	Reason               string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("cannot create a %dx%d board with %d mines: %s", e.Rows, e.Columns, e.Mines, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// OperationError is returned for operations addressed at an unusable cell or
// attempted in the wrong game state
type OperationError struct {
	Op     string
	Pos    Pos
	Reason string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %v: %s", e.Op, e.Pos, e.Reason)
}

func (e *OperationError) Unwrap() error {
	return ErrInvalidOperation
}
