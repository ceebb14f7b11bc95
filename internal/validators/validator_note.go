package validators

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/MKhiriev/sticky-chain/models"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// Field names accepted by Validate for partial checks of a NoteDraft.
const (
	FieldContent = "Content"
	FieldX       = "X"
	FieldY       = "Y"
	FieldColor   = "Color"
	FieldAuthor  = "Author"
)

const maxNoteIDLength = 128

// NoteValidator validates note drafts, move requests and note ids.
type NoteValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewNoteValidator builds a validator with English messages and the
// notblank and finite rules registered.
func NewNoteValidator() (Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	translator, _ := ut.New(en.New(), en.New()).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, fmt.Errorf("registering translations: %w", err)
	}

	// JSON names keep messages consistent with what the client sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation("notblank", nonstandard.NotBlank); err != nil {
		return nil, fmt.Errorf("registering notblank: %w", err)
	}
	if err := validate.RegisterValidation("finite", isFinite); err != nil {
		return nil, fmt.Errorf("registering finite: %w", err)
	}

	for tag, text := range map[string]string{
		"notblank": "{0} must not be blank",
		"finite":   "{0} must be a finite number",
	} {
		if err := validate.RegisterTranslation(tag, translator, registerText(tag, text), translateField); err != nil {
			return nil, fmt.Errorf("registering %s translation: %w", tag, err)
		}
	}

	return &NoteValidator{validate: validate, translator: translator}, nil
}

// Validate dispatches on the dynamic type of obj. Supported types:
//   - models.NoteDraft / *models.NoteDraft (fields restrict the check)
//   - models.MoveNoteRequest / *models.MoveNoteRequest
//   - models.Point
//   - string, treated as a note id
func (v *NoteValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.NoteDraft:
		return v.validateDraft(ctx, value, fields...)
	case *models.NoteDraft:
		return v.validateDraft(ctx, *value, fields...)

	case models.MoveNoteRequest:
		return v.check(ctx, value, ErrInvalidPosition)
	case *models.MoveNoteRequest:
		return v.check(ctx, *value, ErrInvalidPosition)

	case models.Point:
		return v.check(ctx, models.MoveNoteRequest{X: value.X, Y: value.Y}, ErrInvalidPosition)

	case string:
		return validateNoteID(value)

	default:
		return ErrUnsupportedType
	}
}

func (v *NoteValidator) validateDraft(ctx context.Context, d models.NoteDraft, fields ...string) error {
	if len(fields) == 0 {
		return v.check(ctx, d, ErrInvalidNote)
	}

	for _, f := range fields {
		switch f {
		case FieldContent, FieldX, FieldY, FieldColor, FieldAuthor:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
	}
	return v.translate(v.validate.StructPartialCtx(ctx, d, fields...), ErrInvalidNote)
}

func (v *NoteValidator) check(ctx context.Context, obj any, sentinel error) error {
	return v.translate(v.validate.StructCtx(ctx, obj), sentinel)
}

func (v *NoteValidator) translate(err error, sentinel error) error {
	if err == nil {
		return nil
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return err
	}

	fields := make(FieldErrors, 0, len(verrors))
	for _, verror := range verrors {
		fields = append(fields, FieldError{
			Field: verror.Field(),
			Error: verror.Translate(v.translator),
		})
	}
	return fmt.Errorf("%w: %w", sentinel, fields)
}

func validateNoteID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > maxNoteIDLength || strings.ContainsAny(id, "/?#") {
		return ErrInvalidNoteID
	}
	return nil
}

func isFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return true
}

func registerText(tag, text string) validator.RegisterTranslationsFunc {
	return func(t ut.Translator) error {
		return t.Add(tag, text, true)
	}
}

func translateField(t ut.Translator, fe validator.FieldError) string {
	msg, err := t.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Error()
	}
	return msg
}
