package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/alumnet/alumni-backend/internal/model"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

var (
	sapIDPattern     = regexp.MustCompile(`^\d{5}$`)
	letterPattern    = regexp.MustCompile(`[A-Za-z]`)
	digitPattern     = regexp.MustCompile(`\d`)
	avatarURLPattern = regexp.MustCompile(`^(https?://.*|/uploads/.*)$`)
)

// customRule is a project-specific validation tag with its message.
type customRule struct {
	tag     string
	fn      govalidator.Func
	message string
}

var customRules = []customRule{
	{
		tag:     "sapid",
		fn:      func(fl govalidator.FieldLevel) bool { return sapIDPattern.MatchString(fl.Field().String()) },
		message: "{0} must be exactly 5 digits",
	},
	{
		// Empty passes so an update can clear the field; "required" covers registration.
		tag: "season",
		fn: func(fl govalidator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || model.Season(s).Valid()
		},
		message: "{0} must be Spring or Fall",
	},
	{
		tag: "passwd",
		fn: func(fl govalidator.FieldLevel) bool {
			s := fl.Field().String()
			return letterPattern.MatchString(s) && digitPattern.MatchString(s)
		},
		message: "{0} must contain at least one letter and one digit",
	},
	{
		tag: "avatarurl",
		fn: func(fl govalidator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || avatarURLPattern.MatchString(s)
		},
		message: "{0} must be an http(s) URL or an /uploads/ path",
	},
	{
		tag:     "sessiontype",
		fn:      func(fl govalidator.FieldLevel) bool { return model.SessionType(fl.Field().String()).Valid() },
		message: "{0} must be one of 30m, 45m, 60m",
	},
	{
		tag: "timestamp",
		fn: func(fl govalidator.FieldLevel) bool {
			_, err := model.ParseTimestamp(fl.Field().String())
			return err == nil
		},
		message: "{0} must be a valid ISO-8601 date or date-time",
	},
}

// Setup registers the validator with English translations on Gin's binding engine.
// Call once during application startup.
func Setup() {
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// Register English translations.
		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		for _, rule := range customRules {
			_ = v.RegisterValidation(rule.tag, rule.fn)
			registerMessage(v, rule.tag, rule.message)
		}
	}
}

func registerMessage(v *govalidator.Validate, tag, message string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe govalidator.FieldError) string {
			msg, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans != nil {
				fields[fe.Field()] = fe.Translate(trans)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindBody is Bind for handlers that decode the same body more than once.
func BindBody(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindBodyWith(dst, binding.JSON); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// Struct validates v outside of request binding using the same rules.
func Struct(v interface{}) map[string]string {
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
