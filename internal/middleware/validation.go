package middleware

import (
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/clinicnexus/clinic-api/internal/model"
)

// RegisterValidations installs domain validations on gin's binding
// engine and makes validation errors report JSON field names.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	// timeslot: a wall-clock time like "09:30".
	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})

	_ = v.RegisterValidation("visittype", func(fl validator.FieldLevel) bool {
		switch model.VisitType(fl.Field().String()) {
		case model.VisitTypeCheckup, model.VisitTypeProcedure, model.VisitTypeEmergency, model.VisitTypeFollowUp:
			return true
		}
		return false
	})

	_ = v.RegisterValidation("jobtype", func(fl validator.FieldLevel) bool {
		switch model.JobType(fl.Field().String()) {
		case model.JobTypeDoctor, model.JobTypeNurse, model.JobTypeAdmin:
			return true
		}
		return false
	})
}
