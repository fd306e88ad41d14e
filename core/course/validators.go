package course

import (
	"sort"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
)

var (
	statusTag  = "coursestatus"
	statusText = "status must be one of DRAFT, PUBLISHED or ARCHIVED"
)

// InitValidators registers the course package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

func statusValidation(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	sort.Strings(AllStatuses)
	if idx := sort.SearchStrings(AllStatuses, status); idx < len(AllStatuses) {
		return AllStatuses[idx] == status
	}
	return false
}
