package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MissingStrategy selects how the remote service fills missing values.
type MissingStrategy string

const (
	MissingMean   MissingStrategy = "mean"
	MissingMedian MissingStrategy = "median"
	MissingZero   MissingStrategy = "zero"
)

// OutlierMethod selects the outlier detection rule.
type OutlierMethod string

const (
	OutlierIQR    OutlierMethod = "iqr"
	OutlierZScore OutlierMethod = "zscore"
)

// OutlierAction selects what happens to detected outliers.
type OutlierAction string

const (
	OutlierCap    OutlierAction = "cap"
	OutlierRemove OutlierAction = "remove"
)

// Normalization selects the scaling applied to numeric columns.
type Normalization string

const (
	NormalizationStandard Normalization = "standard"
	NormalizationMinMax   Normalization = "minmax"
)

// OutputFormat selects the processed file format.
type OutputFormat string

const (
	OutputCSV   OutputFormat = "csv"
	OutputExcel OutputFormat = "excel"
	OutputJSON  OutputFormat = "json"
)

// ProcessingOptions are the user's cleaning choices, sent verbatim to the
// processing service.
type ProcessingOptions struct {
	MissingStrategy MissingStrategy `json:"missing_strategy" validate:"required,oneof=mean median zero"`
	OutlierMethod   OutlierMethod   `json:"outlier_method" validate:"required,oneof=iqr zscore"`
	OutlierAction   OutlierAction   `json:"outlier_action" validate:"required,oneof=cap remove"`
	Normalization   Normalization   `json:"normalization" validate:"required,oneof=standard minmax"`
	OutputFormat    OutputFormat    `json:"output_format" validate:"required,oneof=csv excel json"`
}

// DefaultOptions returns {mean, iqr, cap, standard, csv}.
func DefaultOptions() ProcessingOptions {
	return ProcessingOptions{
		MissingStrategy: MissingMean,
		OutlierMethod:   OutlierIQR,
		OutlierAction:   OutlierCap,
		Normalization:   NormalizationStandard,
		OutputFormat:    OutputCSV,
	}
}

// ErrInvalidOptions is wrapped by every error returned from Validate.
var ErrInvalidOptions = errors.New("invalid option")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func optionsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report JSON names so messages match what the API calls the fields.
		validate.RegisterTagNameFunc(jsonFieldName)
	})
	return validate
}

// Validate checks every field against its enum.
func (o ProcessingOptions) Validate() error {
	err := optionsValidator().Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(msgs, "; "))
}

// Choices lists the allowed values per option, in display order.
// Keys are the JSON field names.
var Choices = []OptionChoice{
	{Field: "missing_strategy", Label: "Missing values", Values: []string{"mean", "median", "zero"}},
	{Field: "outlier_method", Label: "Outlier detection", Values: []string{"iqr", "zscore"}},
	{Field: "outlier_action", Label: "Outlier action", Values: []string{"cap", "remove"}},
	{Field: "normalization", Label: "Normalization", Values: []string{"standard", "minmax"}},
	{Field: "output_format", Label: "Output format", Values: []string{"csv", "excel", "json"}},
}

// OptionChoice describes one selectable option for a form.
type OptionChoice struct {
	Field  string
	Label  string
	Values []string
}

// Get returns the current value of the named option field.
func (o ProcessingOptions) Get(field string) string {
	switch field {
	case "missing_strategy":
		return string(o.MissingStrategy)
	case "outlier_method":
		return string(o.OutlierMethod)
	case "outlier_action":
		return string(o.OutlierAction)
	case "normalization":
		return string(o.Normalization)
	case "output_format":
		return string(o.OutputFormat)
	}
	return ""
}

// With returns a copy with the named field set. Unknown fields are ignored;
// membership in the enum is left to Validate.
func (o ProcessingOptions) With(field, value string) ProcessingOptions {
	switch field {
	case "missing_strategy":
		o.MissingStrategy = MissingStrategy(value)
	case "outlier_method":
		o.OutlierMethod = OutlierMethod(value)
	case "outlier_action":
		o.OutlierAction = OutlierAction(value)
	case "normalization":
		o.Normalization = Normalization(value)
	case "output_format":
		o.OutputFormat = OutputFormat(value)
	}
	return o
}

// Cycle returns a copy with the named field moved delta steps through its
// allowed values, wrapping at both ends.
func (o ProcessingOptions) Cycle(field string, delta int) ProcessingOptions {
	for _, c := range Choices {
		if c.Field != field {
			continue
		}
		current := 0
		for i, v := range c.Values {
			if v == o.Get(field) {
				current = i
				break
			}
		}
		n := len(c.Values)
		next := ((current+delta)%n + n) % n
		return o.With(field, c.Values[next])
	}
	return o
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
