package server

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength  = 32
	maxTitleLength = 200

	// textPunctuation is what names and titles may contain besides ASCII
	// letters, digits and spaces.
	textPunctuation = "-_'\".,!?:;&()/#%+"
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(wireName)
		_ = engine.RegisterValidation("name", func(fl validator.FieldLevel) bool {
			_, err := validateName(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("title", func(fl validator.FieldLevel) bool {
			_, err := validateTitle(fl.Field().String())
			return err == nil
		})
	})
}

// wireName reports a field by the name clients send it under.
func wireName(field reflect.StructField) string {
	for _, key := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(field.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

func validateName(name string) (string, error) {
	return cleanText("name", name, maxNameLength)
}

func validateTitle(title string) (string, error) {
	return cleanText("title", title, maxTitleLength)
}

// cleanText collapses runs of whitespace and rejects anything outside the
// plain character set.
func cleanText(label, text string, maxLen int) (string, error) {
	cleaned := strings.Join(strings.Fields(text), " ")
	switch {
	case cleaned == "":
		return "", fmt.Errorf("%s is required", label)
	case len(cleaned) > maxLen:
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxLen)
	case strings.IndexFunc(cleaned, isUnsupportedRune) >= 0:
		return "", fmt.Errorf("%s contains unsupported characters", label)
	}
	return cleaned, nil
}

func isUnsupportedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
		return false
	}
	return !strings.ContainsRune(textPunctuation, r)
}
