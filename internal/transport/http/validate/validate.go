package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"

	"github.com/baechuer/user-service/internal/domain"
	"github.com/baechuer/user-service/internal/transport/http/dto"
)

// Validator validates request DTOs and localizes messages for the
// Accept-Language of the request.
type Validator struct {
	v             *validator.Validate
	uni           *ut.UniversalTranslator
	defaultLocale string
}

func New(defaultLocale string) (*Validator, error) {
	enLoc := en.New()
	frLoc := fr.New()
	uni := ut.New(enLoc, enLoc, frLoc)

	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names, not Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(dto.NullableStringValue, dto.NullableString{})
	v.RegisterStructValidation(createUserRules, dto.CreateUserRequest{})

	enTrans, _ := uni.GetTranslator("en")
	frTrans, _ := uni.GetTranslator("fr")

	if err := en_translations.RegisterDefaultTranslations(v, enTrans); err != nil {
		return nil, fmt.Errorf("register en translations: %w", err)
	}
	if err := fr_translations.RegisterDefaultTranslations(v, frTrans); err != nil {
		return nil, fmt.Errorf("register fr translations: %w", err)
	}
	if err := addCatalog(enTrans, messagesEN); err != nil {
		return nil, fmt.Errorf("en catalog: %w", err)
	}
	if err := addCatalog(frTrans, messagesFR); err != nil {
		return nil, fmt.Errorf("fr catalog: %w", err)
	}

	if defaultLocale != "en" {
		defaultLocale = "fr"
	}
	return &Validator{v: v, uni: uni, defaultLocale: defaultLocale}, nil
}

// createUserRules rejects "role": null on create; omitting role selects the default.
func createUserRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.CreateUserRequest)
	if req.RoleIsNull() {
		sl.ReportError(req.Role, "role", "Role", "required", "")
	}
}

// Struct validates s. Failures become one domain validation error whose meta
// maps each failing json field to a localized message.
func (val *Validator) Struct(acceptLanguage string, s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ErrInternal(err)
	}

	trans := val.Translator(acceptLanguage)
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(trans)
	}
	return domain.ErrValidation(fields)
}

// Translator picks the first supported language from an Accept-Language
// header, falling back to the default locale.
func (val *Validator) Translator(acceptLanguage string) ut.Translator {
	if tags := parseAcceptLanguage(acceptLanguage); len(tags) > 0 {
		if trans, found := val.uni.FindTranslator(tags...); found {
			return trans
		}
	}
	trans, _ := val.uni.GetTranslator(val.defaultLocale)
	return trans
}

// Localize returns the catalogue message for a domain error code, or fallback
// when the code has no entry.
func (val *Validator) Localize(acceptLanguage, code, fallback string) string {
	msg, err := val.Translator(acceptLanguage).T(code)
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}

// parseAcceptLanguage returns base language tags in header order ("fr-CA;q=0.8" -> "fr").
// Quality values are ignored.
func parseAcceptLanguage(h string) []string {
	var out []string
	for _, part := range strings.Split(h, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" || tag == "*" {
			continue
		}
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		out = append(out, base)
	}
	return out
}

func addCatalog(trans ut.Translator, msgs map[string]string) error {
	for code, text := range msgs {
		if err := trans.Add(code, text, true); err != nil {
			return fmt.Errorf("%s: %w", code, err)
		}
	}
	return nil
}
