package handlers

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/org-management-api/internal/models"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator and
// makes field errors report JSON names.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}

		v.RegisterTagNameFunc(jsonFieldName)

		if err = v.RegisterValidation("project_status", validateProjectStatus); err != nil {
			return
		}
		err = v.RegisterValidation("assignable_role", validateAssignableRole)
	})
	return err
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	return models.ProjectStatus(fl.Field().String()).Valid()
}

// validateAssignableRole accepts the roles an admin may submit for a member:
// Admin and Member.
func validateAssignableRole(fl validator.FieldLevel) bool {
	switch models.Role(fl.Field().Uint()) {
	case models.RoleAdmin, models.RoleMember:
		return true
	}
	return false
}
