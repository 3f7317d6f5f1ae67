package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"tableflip.dev/taskodos/pkg/api"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func initValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("notblank", validators.NotBlank)
	})
}

// check runs the struct tags of a form and maps the first failure onto the
// package sentinels.
func check(form any) error {
	initValidator()
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	fe := fields[0]
	switch {
	case fe.Field() == "Title":
		return ErrTitleRequired
	case fe.Field() == "GoalID":
		return fmt.Errorf("%w: %q", ErrInvalidGoal, fe.Value())
	case fe.Tag() == "datetime":
		return fmt.Errorf("%w: %q", api.ErrInvalidDate, fe.Value())
	default:
		return ErrDateRequired
	}
}
