package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Code     string `json:"code" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Capacity int    `json:"capacity" validate:"gt=0"`
	Nested   struct {
		Name string `json:"name" validate:"max=3"`
	} `json:"nested"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	s := sample{Email: "nope", Capacity: 0}
	s.Nested.Name = "toolong"

	errs := Struct(s)
	assert.Equal(t, map[string]string{
		"code":        "code is required!",
		"email":       "email must be a valid email!",
		"capacity":    "capacity must be greater than 0!",
		"nested.name": "name must be at most 3 characters long!",
	}, errs)
}

func TestStructValid(t *testing.T) {
	assert.Nil(t, Struct(sample{Code: "CS101", Capacity: 3}))
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("a@example.edu", "required,email"))
	assert.Error(t, Var("", "required,email"))
}
