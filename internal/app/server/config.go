package server

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Config struct {
	Listen          string        `validate:"required"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	return nil
}
