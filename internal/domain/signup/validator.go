package signup

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/geocoder89/signup/internal/domain/country"
	"github.com/go-playground/validator/v10"
)

type permittedKey struct{}

// tag -> kind. The validator stops at the first failing tag of a field,
// so the tag order on Input decides which kind surfaces.
var kindByTag = map[string]Kind{
	"trimmed_min":       KindTooShort,
	"email":             KindInvalidFormat,
	"dotted_domain":     KindInvalidFormat,
	"min":               KindPasswordMinLength,
	"has_upper":         KindPasswordUpper,
	"has_lower":         KindPasswordLower,
	"has_digit":         KindPasswordDigit,
	"eqfield":           KindMismatch,
	"required":          KindRequired,
	"permitted_country": KindRequired,
	"accepted":          KindMustAccept,
}

// Validator evaluates registration input against the fixed rule set.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return sf.Name
		}
		return name
	})

	custom := map[string]validator.Func{
		"trimmed_min":   trimmedMin,
		"dotted_domain": dottedDomain,
		"has_upper":     containsByte(func(b byte) bool { return b >= 'A' && b <= 'Z' }),
		"has_lower":     containsByte(func(b byte) bool { return b >= 'a' && b <= 'z' }),
		"has_digit":     containsByte(func(b byte) bool { return b >= '0' && b <= '9' }),
		"accepted":      accepted,
	}
	for tag, fn := range custom {
		mustRegister(tag, v.RegisterValidation(tag, fn))
	}
	mustRegister("permitted_country", v.RegisterValidationCtx("permitted_country", permittedCountry))

	return &Validator{validate: v}
}

func mustRegister(tag string, err error) {
	if err != nil {
		panic(fmt.Sprintf("signup: register %q: %v", tag, err))
	}
}

// Validate checks every field of in. permitted is the snapshot of selectable
// country values; an empty set makes the country field fail.
func (v *Validator) Validate(in Input, permitted country.Set) Result {
	ctx := context.WithValue(context.Background(), permittedKey{}, permitted)

	err := v.validate.StructCtx(ctx, &in)
	if err == nil {
		return Result{}
	}

	errs := make(map[string]FieldError, len(Fields))

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// only reachable on a programming error (non-struct input)
		for _, f := range Fields {
			errs[f] = FieldError{Field: f, Kind: KindInvalidFormat}
		}
		return Result{errs: errs}
	}

	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}

		kind, ok := kindByTag[fe.Tag()]
		if !ok {
			kind = KindInvalidFormat
		}

		errs[field] = FieldError{Field: field, Kind: kind}
	}

	return Result{errs: errs}
}

// ValidateField re-validates a single field path, for blur/change feedback.
func (v *Validator) ValidateField(in Input, field string, permitted country.Set) (Result, error) {
	if !knownField(field) {
		return Result{}, ErrUnknownField
	}

	return v.Validate(in, permitted).only(field), nil
}

func trimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

func dottedDomain(fl validator.FieldLevel) bool {
	s := fl.Field().String()

	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return false
	}

	domain := s[at+1:]
	dot := strings.IndexByte(domain, '.')

	return dot > 0 && dot < len(domain)-1
}

func containsByte(match func(byte) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for i := 0; i < len(s); i++ {
			if match(s[i]) {
				return true
			}
		}
		return false
	}
}

func accepted(fl validator.FieldLevel) bool {
	f := fl.Field()
	return f.Kind() == reflect.Bool && f.Bool()
}

func permittedCountry(ctx context.Context, fl validator.FieldLevel) bool {
	set, _ := ctx.Value(permittedKey{}).(country.Set)
	return set.Contains(fl.Field().String())
}
