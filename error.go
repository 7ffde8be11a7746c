package gearbox

import "github.com/pkg/errors"

// DriverError records original sql driver error and supporting info that caused it.
type DriverError struct {
	// Info contains supporting info
	Info string

	// Err is the original (possibly driver-specific) error
	Err error
}

func (e *DriverError) Error() string { return e.Info + ": " + e.Err.Error() }

func (e *DriverError) Unwrap() error { return e.Err }

// ConfigError reports an unusable application config file.
type ConfigError struct {
	// File is the path of the config file
	File string

	// Err describes what is wrong with it
	Err error
}

func (e *ConfigError) Error() string { return "config " + e.File + ": " + e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// UnderlyingError returns the underlying error from DriverError.
//
// err may wrap the DriverError; any other error is returned as is.
func UnderlyingError(err error) error {
	var derr *DriverError
	if errors.As(err, &derr) {
		return derr.Err
	}
	return err
}
