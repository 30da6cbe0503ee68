package graph

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("nodekind", func(fl validator.FieldLevel) bool {
			return Kind(fl.Field().String()).Valid()
		})
	})
	return validate
}

// Validate checks a draft before it is sent to a store.
func (d Draft) Validate() error {
	if err := validatorInstance().Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid draft: field %s failed %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid draft: %w", err)
	}
	if d.Content.Width < 0 || d.Content.Height < 0 {
		return fmt.Errorf("invalid draft: negative size %gx%g", d.Content.Width, d.Content.Height)
	}
	return nil
}

// Validate checks a relation before it is sent to a store.
func (r Relation) Validate() error {
	if r.FromID == "" || r.ToID == "" {
		return fmt.Errorf("invalid relation: both endpoints are required")
	}
	return nil
}
