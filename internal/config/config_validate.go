// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/tomtom215/pygeoregister/internal/logging"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// repoPattern matches a GitHub owner/name pair.
var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// getValidator returns the singleton validator with config-specific rules.
// Field names in errors use koanf keys so they match the YAML file.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
			return logging.ValidLevel(fl.Field().String())
		})
		_ = validate.RegisterValidation("repo", func(fl validator.FieldLevel) bool {
			return repoPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return err
	}
	return c.validateLanguages()
}

// validateLanguages checks every configured locale is a well-formed BCP 47 tag.
func (c *Config) validateLanguages() error {
	for _, lang := range c.Server.Languages {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("server.languages: invalid language tag %q: %w", lang, err)
		}
	}
	return nil
}

// fieldError converts a validator.FieldError into a message keyed by the
// YAML path, e.g. "metadata.identification.title is required".
func fieldError(fe validator.FieldError) error {
	path := strings.TrimPrefix(fe.Namespace(), "Config.")

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", path)
	case "min", "gte":
		return fmt.Errorf("%s must be at least %s", path, fe.Param())
	case "max", "lte":
		return fmt.Errorf("%s must be at most %s", path, fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", path, fe.Param())
	case "url":
		return fmt.Errorf("%s must be a valid URL", path)
	case "loglevel":
		return fmt.Errorf("%s must be one of: DEBUG, INFO, WARNING, ERROR, CRITICAL", path)
	case "repo":
		return fmt.Errorf("%s must be in owner/name form", path)
	case "required_with":
		return fmt.Errorf("%s is required when %s is set", path, fe.Param())
	default:
		return fmt.Errorf("%s failed %s validation", path, fe.Tag())
	}
}
