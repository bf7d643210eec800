package utils

import (
	"regexp"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

var (
	validate         *validator.Validate
	questionTagRegex = regexp.MustCompile(constvars.RegexQuestionTag)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("question_tag", validateQuestionTag)
	validate.RegisterValidation("input_type", validateInputType)
	validate.RegisterValidation("source_type", validateSourceType)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func IsValidQuestionTag(tag string) bool {
	return questionTagRegex.MatchString(tag)
}

func validateQuestionTag(fl validator.FieldLevel) bool {
	return IsValidQuestionTag(fl.Field().String())
}

func validateInputType(fl validator.FieldLevel) bool {
	return models.InputType(fl.Field().String()).IsValid()
}

func validateSourceType(fl validator.FieldLevel) bool {
	return models.SourceType(fl.Field().String()).IsValid()
}
