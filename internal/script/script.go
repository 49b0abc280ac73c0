// Package script replays recorded form interactions.
//
// A script is a YAML document:
//
//	name: sweep
//	steps:
//	  - focus: k3d_la_initKFactor
//	  - edit: k3d_la_initKFactor
//	    value: "0"
//	  - blur: true
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Step is one interaction. Exactly one of Focus, Edit or Blur is set.
type Step struct {
	Focus string  `yaml:"focus,omitempty"`
	Edit  string  `yaml:"edit,omitempty"`
	Value *string `yaml:"value,omitempty"`
	Blur  bool    `yaml:"blur,omitempty"`
}

// Script is an ordered list of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Target receives the replayed steps.
type Target interface {
	Focus(key string) error
	Edit(ctx context.Context, key, value string) error
	// Validations returns how many full validations ran so far.
	Validations() int
}

// Result summarizes a replay.
type Result struct {
	Steps       int
	Validations int
}

// Parse decodes and checks a script.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &Script{}, nil
		}
		return nil, fmt.Errorf("decode script: %w", err)
	}
	for i, step := range s.Steps {
		if err := step.check(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

// ParseFile reads a script from path.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func (s Step) check() error {
	set := 0
	if s.Focus != "" {
		set++
	}
	if s.Edit != "" {
		set++
	}
	if s.Blur {
		set++
	}
	switch {
	case set != 1:
		return errors.New("exactly one of focus, edit or blur is required")
	case s.Edit != "" && s.Value == nil:
		return fmt.Errorf("edit %s: value is required", s.Edit)
	case s.Edit == "" && s.Value != nil:
		return errors.New("value is only valid with edit")
	}
	return nil
}

// Run applies every step to target in order and stops at the first error
// or when ctx is done.
func (s *Script) Run(ctx context.Context, target Target) (Result, error) {
	start := target.Validations()
	var res Result
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		var err error
		switch {
		case step.Blur:
			err = target.Focus("")
		case step.Focus != "":
			err = target.Focus(step.Focus)
		default:
			err = target.Edit(ctx, step.Edit, *step.Value)
		}
		res.Validations = target.Validations() - start
		if err != nil {
			return res, fmt.Errorf("step %d: %w", i+1, err)
		}
		res.Steps++
	}
	return res, nil
}
