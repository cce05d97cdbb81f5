package service

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/bookmarks/internal/models"
)

// Length limits of the bookmark text fields, counted in characters.
const (
	MaxTitleLength = 120
	MaxTagsLength  = 200
	MaxNotesLength = 2000
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when client input is rejected before it reaches the store.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(fields ...FieldError) *ValidationError {
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Message)
	}

	return &ValidationError{
		Message: strings.Join(msgs, "; "),
		Fields:  fields,
	}
}

// bookmarkPayload is the normalized input checked by the validator against bookmarkRules.
type bookmarkPayload struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Tags   string `json:"tags"`
	Notes  string `json:"notes"`
	Status string `json:"status"`
}

var bookmarkRules = map[string]string{
	"URL":    "required,bookmark_url",
	"Title":  fmt.Sprintf("required,max=%d", MaxTitleLength),
	"Tags":   fmt.Sprintf("max=%d", MaxTagsLength),
	"Notes":  fmt.Sprintf("max=%d", MaxNotesLength),
	"Status": fmt.Sprintf("required,oneof=%s %s", models.StatusInbox, models.StatusDone),
}

func newValidate() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on an empty tag or a nil func.
	_ = validate.RegisterValidation("bookmark_url", func(fl validator.FieldLevel) bool {
		return isWebURL(fl.Field().String())
	})

	validate.RegisterStructValidationMapRules(bookmarkRules, bookmarkPayload{})

	return validate
}

func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

var (
	schemePrefix   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	leadingSlashes = regexp.MustCompile(`^/+`)
)

// normalizeURL trims s and assumes https when s does not start with a scheme.
// Leading slashes of a scheme-less URL are dropped.
func normalizeURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || schemePrefix.MatchString(s) {
		return s
	}
	return "https://" + leadingSlashes.ReplaceAllString(s, "")
}

// collapseSpaces trims s and replaces every run of whitespace with a single space.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func normalize(input models.BookmarkInput) bookmarkPayload {
	status := strings.ToUpper(strings.TrimSpace(input.Status))
	if st, ok := models.ParseStatus(input.Status); ok {
		status = string(st)
	}

	return bookmarkPayload{
		URL:    normalizeURL(input.URL),
		Title:  collapseSpaces(input.Title),
		Tags:   collapseSpaces(input.Tags),
		Notes:  strings.TrimSpace(input.Notes),
		Status: status,
	}
}

func (s *BookmarkService) validate(p bookmarkPayload) (models.BookmarkFields, error) {
	if err := s.validator.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return models.BookmarkFields{}, err
		}

		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}

		return models.BookmarkFields{}, newValidationError(fields...)
	}

	return models.BookmarkFields{
		URL:    p.URL,
		Title:  p.Title,
		Tags:   p.Tags,
		Notes:  p.Notes,
		Status: models.Status(p.Status),
	}, nil
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Field() == "status" {
		return "invalid status"
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "bookmark_url":
		return fmt.Sprintf("%s must be a valid http or https URL", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// ValidateForCreate normalizes input for a new bookmark. The status of a new
// bookmark is always INBOX, whatever the client sent.
func (s *BookmarkService) ValidateForCreate(input models.BookmarkInput) (models.BookmarkFields, error) {
	p := normalize(input)
	p.Status = string(models.StatusInbox)

	return s.validate(p)
}

// ValidateForUpdate normalizes input for a full replacement. The status is required
// and must name a known status, ignoring case.
func (s *BookmarkService) ValidateForUpdate(input models.BookmarkInput) (models.BookmarkFields, error) {
	return s.validate(normalize(input))
}
