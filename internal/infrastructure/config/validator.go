package configinfra

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	configdomain "github.com/wdwxedit/plugdeploy/internal/core/domain/config"
	configports "github.com/wdwxedit/plugdeploy/internal/core/ports/config"
)

// ConfigValidator validates a resolved DeployConfig
type ConfigValidator struct {
	validate *validator.Validate
}

// NewConfigValidator creates a new configuration validator
func NewConfigValidator() *ConfigValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report problems under the names used in config files.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("config"); name != "" {
			return name
		}
		return f.Name
	})
	v.RegisterStructValidation(validateDirectories, configdomain.DeployConfig{})

	return &ConfigValidator{validate: v}
}

// Validate returns a *ConfigError listing every problem found
func (v *ConfigValidator) Validate(cfg *configdomain.DeployConfig) error {
	if cfg == nil {
		return &configdomain.ConfigError{Err: errors.New("configuration is nil")}
	}

	err := v.validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &configdomain.ConfigError{Err: err}
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return &configdomain.ConfigError{Problems: problems, Err: err}
}

// validateDirectories rejects installing onto the source directory itself
func validateDirectories(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(configdomain.DeployConfig)
	if cfg.SourceDir == "" || cfg.DestDir == "" {
		return
	}
	if filepath.Clean(cfg.SourceDir) == filepath.Clean(cfg.DestDir) {
		sl.ReportError(cfg.DestDir, "dest_dir", "DestDir", "nesource", "")
	}
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	if ns := fe.Namespace(); strings.Contains(ns, "[") {
		// dive errors: DeployConfig.artifacts[1] -> artifacts[1]
		field = ns[strings.Index(ns, ".")+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_unless":
		return fmt.Sprintf("%s is required unless skip_build is set", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "excludesall":
		return fmt.Sprintf("%s must be a plain file name, got %q", field, fe.Value())
	case "nesource":
		return fmt.Sprintf("%s must differ from source_dir", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

var _ configports.Validator = (*ConfigValidator)(nil)
