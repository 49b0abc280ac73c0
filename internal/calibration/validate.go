package calibration

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/ports"
	"github.com/aretw0/calform/pkg/registry"
	"github.com/go-playground/validator/v10"
)

// MsgFirmwareMissing is the catalog key reported when no firmware is selected.
const MsgFirmwareMissing = "calibration.firmware.missing"

// ProblemKind classifies a parameter problem.
type ProblemKind string

const (
	ProblemFormat  ProblemKind = "format"
	ProblemRange   ProblemKind = "range"
	ProblemMissing ProblemKind = "missing"
)

// Problem is one rejected parameter.
type Problem struct {
	// Field is the registry key the problem belongs to.
	Field string
	Kind  ProblemKind
	// Message is the catalog key describing the problem.
	Message string
}

func formatProblem(key string) Problem {
	return Problem{Field: key, Kind: ProblemFormat, Message: messageKey(key, ProblemFormat)}
}

func messageKey(key string, kind ProblemKind) string {
	return "calibration." + strings.TrimPrefix(key, "k3d_la_") + "." + string(kind)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func paramsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			return f.Tag.Get("mapstructure")
		})
	})
	return validate
}

// Validate range checks p and requires a firmware selection.
// Problems are returned in form order.
func Validate(p Params) []Problem {
	var problems []Problem

	if p.Firmware() == FirmwareUnknown {
		problems = append(problems, Problem{
			Field:   registry.KeyFirmwareMarlin,
			Kind:    ProblemMissing,
			Message: MsgFirmwareMissing,
		})
	}

	err := paramsValidator().Struct(p)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			problems = append(problems, Problem{
				Field:   fe.Field(),
				Kind:    ProblemRange,
				Message: messageKey(fe.Field(), ProblemRange),
			})
		}
	}

	sortProblems(problems)
	return problems
}

// Check decodes and validates state. Range problems are not reported for
// fields that already failed to parse.
func Check(state domain.FormState) (Params, []Problem) {
	p, problems := Decode(state)

	malformed := make(map[string]bool, len(problems))
	for _, pr := range problems {
		malformed[pr.Field] = true
	}
	for _, pr := range Validate(p) {
		if !malformed[pr.Field] {
			problems = append(problems, pr)
		}
	}

	sortProblems(problems)
	return p, problems
}

var formOrder = func() map[string]int {
	keys := registry.Calibration().Keys()
	order := make(map[string]int, len(keys))
	for i, k := range keys {
		order[k] = i
	}
	return order
}()

func sortProblems(problems []Problem) {
	slices.SortStableFunc(problems, func(a, b Problem) int {
		return formOrder[a.Field] - formOrder[b.Field]
	})
}

// Messages resolves the catalog keys of problems.
func Messages(problems []Problem, catalog ports.Catalog) []string {
	out := make([]string, len(problems))
	for i, pr := range problems {
		out[i] = catalog.GetString(pr.Message)
	}
	return out
}

// Err folds problems into a single error wrapping domain.ErrInvalidValue.
func Err(problems []Problem) error {
	if len(problems) == 0 {
		return nil
	}
	keys := make([]string, len(problems))
	for i, pr := range problems {
		keys[i] = pr.Message
	}
	return &ProblemsError{Problems: problems, keys: keys}
}

// ProblemsError is returned when parameters were rejected.
type ProblemsError struct {
	Problems []Problem
	keys     []string
}

func (e *ProblemsError) Error() string {
	return "invalid calibration parameters: " + strings.Join(e.keys, ", ")
}

func (e *ProblemsError) Unwrap() error {
	return domain.ErrInvalidValue
}
