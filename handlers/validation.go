// validation.go - Custom request validators registered on gin's validator

package handlers

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// handle@bank, e.g. prhallad2@ybl
var upiPattern = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)

var registerOnce sync.Once

// RegisterValidators adds the "upi" tag to gin's binding validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("upi", func(fl validator.FieldLevel) bool {
				return ValidUPIID(fl.Field().String())
			})
		}
	})
}

func ValidUPIID(s string) bool { return upiPattern.MatchString(s) }
