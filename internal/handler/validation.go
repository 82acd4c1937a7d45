package handler

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"ward-rounds/internal/clinical"
)

var registerOnce sync.Once

// RegisterValidators adds the ward-specific binding rules to gin's validator:
//
//	ymd        a YYYY-MM-DD calendar date
//	capd_item  a known CAP-D item code
//	answer     a checklist answer (sim, nao, não, nao_se_aplica)
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
			_, err := clinical.ValidateDate("", fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("capd_item", func(fl validator.FieldLevel) bool {
			code := fl.Field().String()
			for _, item := range clinical.CapdItems {
				if item.Code == code {
					return true
				}
			}
			return false
		})
		_ = v.RegisterValidation("answer", func(fl validator.FieldLevel) bool {
			_, err := clinical.ParseAnswer(fl.Field().String())
			return err == nil
		})
	})
}
