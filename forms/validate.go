// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package forms

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/feedbackform/models"
)

// ValidationError carries per-field messages keyed by dotted JSON path,
// e.g. "eerste_mail_variants.0.subject".
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// followUp describes an optional stage for the manual rules.
type followUp struct {
	field    string
	number   int
	enabled  bool
	variants []models.VariantInput
}

// Validate trims and checks a creation request. It returns
// *ValidationError when any field is invalid. Variants of disabled
// stages are ignored.
func Validate(req *models.CreateFormRequest) error {
	normalize(req)
	verr := &ValidationError{}

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate request: %w", err)
		}
		for _, fe := range fieldErrs {
			path := fieldPath(fe.Namespace())
			verr.add(path, message(path, fe.Tag(), ""))
		}
	}

	stages := []followUp{
		{"opvolgmail_1_variants", 1, req.Opvolgmail1Enabled, req.Opvolgmail1Variants},
		{"opvolgmail_2_variants", 2, req.Opvolgmail2Enabled, req.Opvolgmail2Variants},
	}
	for _, st := range stages {
		if !st.enabled {
			continue
		}
		suffix := fmt.Sprintf(" voor opvolgmail %d", st.number)
		switch {
		case len(st.variants) == 0:
			verr.add(st.field, message(st.field, "min", suffix))
		case len(st.variants) > models.MaxVariantsPerStage:
			verr.add(st.field, message(st.field, "max", suffix))
		default:
			for i := range st.variants {
				validateVariant(verr, fmt.Sprintf("%s.%d", st.field, i), &st.variants[i])
			}
		}
	}

	if req.Opvolgmail2Enabled && !req.Opvolgmail1Enabled {
		verr.add("opvolgmail_2_enabled", "Opvolgmail 2 kan alleen worden ingeschakeld als opvolgmail 1 actief is")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func validateVariant(verr *ValidationError, prefix string, v *models.VariantInput) {
	err := validate.Struct(v)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add(prefix, err.Error())
		return
	}
	for _, fe := range fieldErrs {
		path := prefix + "." + fe.Field()
		verr.add(path, message(path, fe.Tag(), ""))
	}
}

// fieldPath turns "CreateFormRequest.eerste_mail_variants[0].subject"
// into "eerste_mail_variants.0.subject".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	return strings.ReplaceAll(namespace, "]", "")
}

func message(path, tag, suffix string) string {
	leaf := path
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		leaf = path[i+1:]
	}

	switch {
	case leaf == "klantnaam":
		return "Klantnaam is verplicht"
	case leaf == "subject":
		return "Onderwerp is verplicht"
	case leaf == "body":
		return "Inhoud is verplicht"
	case leaf == "webhook_url":
		return "Ongeldige webhook URL"
	case tag == "min" || tag == "required":
		return "Minimaal 1 variant vereist" + suffix
	case tag == "max":
		return fmt.Sprintf("Maximaal %d varianten toegestaan", models.MaxVariantsPerStage) + suffix
	}
	return "Ongeldige waarde"
}

// normalize trims the fields whose surrounding whitespace carries no
// meaning, so "   " counts as missing.
func normalize(req *models.CreateFormRequest) {
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.WebhookURL = strings.TrimSpace(req.WebhookURL)
	for _, group := range [][]models.VariantInput{req.EersteMailVariants, req.Opvolgmail1Variants, req.Opvolgmail2Variants} {
		for i := range group {
			group[i].Subject = strings.TrimSpace(group[i].Subject)
			if strings.TrimSpace(group[i].Body) == "" {
				group[i].Body = ""
			}
		}
	}
}
