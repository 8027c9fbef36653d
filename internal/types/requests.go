package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// RequestError describes a single invalid request field.
type RequestError struct {
	Field   string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = newValidator()

// newValidator returns a validator with the "trimmin" rule registered.
// trimmin=N requires at least N runes after trimming surrounding whitespace.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("trimmin", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
	})
	return v
}

// SelectedKeyword is a keyword chosen by the user for integration.
// It decodes from either a plain JSON string or an object with a "keyword" field.
type SelectedKeyword struct {
	Keyword string `json:"keyword"`
}

// UnmarshalJSON implements flexible keyword decoding.
func (k *SelectedKeyword) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		k.Keyword = s
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err == nil {
		if v, ok := obj["keyword"]; ok && v != nil {
			k.Keyword = fmt.Sprint(v)
		}
		return nil
	}

	raw := strings.TrimSpace(string(data))
	if raw != "null" {
		k.Keyword = raw
	}
	return nil
}

// MarshalJSON encodes the keyword as an object.
func (k SelectedKeyword) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"keyword": k.Keyword})
}

// AnalyzeRequest is the body of a keyword analysis request.
type AnalyzeRequest struct {
	ResumeText string  `json:"resume_text" validate:"required,trimmin=10"`
	JobData    JobData `json:"job_data"`
}

// Validate validates the AnalyzeRequest.
func (r *AnalyzeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return describe(err)
	}
	if r.JobData.IsEmpty() {
		return &RequestError{Field: "job_data", Message: "Job data is required"}
	}
	return nil
}

// OptimizeRequest is the body of a resume optimization request.
type OptimizeRequest struct {
	OriginalResumeText string            `json:"original_resume_text" validate:"required,trimmin=50"`
	JobDescription     string            `json:"job_description" validate:"required,trimmin=50"`
	SelectedKeywords   []SelectedKeyword `json:"selected_keywords"`
	JobTitle           string            `json:"job_title"`
}

// Validate validates the OptimizeRequest.
func (r *OptimizeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return describe(err)
	}
	return nil
}

// KeywordStrings returns the trimmed, non-empty selected keywords in input order.
func (r *OptimizeRequest) KeywordStrings() []string {
	out := make([]string, 0, len(r.SelectedKeywords))
	for _, k := range r.SelectedKeywords {
		if kw := strings.TrimSpace(k.Keyword); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// ScoreRequest is the body of a standalone scoring request.
type ScoreRequest struct {
	OptimizedText string   `json:"optimized_text" validate:"required"`
	OriginalText  string   `json:"original_text" validate:"required"`
	JobData       JobData  `json:"job_data"`
	Keywords      []string `json:"keywords"`
}

// Validate validates the ScoreRequest.
func (r *ScoreRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return describe(err)
	}
	return nil
}

var fieldMessages = map[string]string{
	"ResumeText":         "Resume text is required and must contain meaningful content",
	"OriginalResumeText": "Original resume text is required and must contain meaningful content",
	"JobDescription":     "Job description is required and must contain meaningful content",
	"OptimizedText":      "Optimized text is required",
	"OriginalText":       "Original text is required",
}

// describe converts validator errors into a RequestError for the first failing field.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	msg, ok := fieldMessages[fe.StructField()]
	if !ok {
		msg = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return &RequestError{Field: fe.Field(), Message: msg}
}
