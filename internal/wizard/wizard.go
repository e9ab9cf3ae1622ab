// Package wizard implements linear multi-step forms: each step validates its
// part of the form before the flow moves on.
package wizard

import (
	"errors"
	"fmt"
)

// ErrFinished is returned by Next once the last step has been passed.
var ErrFinished = errors.New("wizard: already finished")

// Step is one page of a flow.
type Step[T any] struct {
	Name     string
	Validate func(form *T) error
}

// StepError reports a failed step.
type StepError struct {
	Step  string
	Index int
	Err   error
}

func (e *StepError) Error() string { return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Step, e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

// Flow walks a form through its steps in order.
type Flow[T any] struct {
	steps   []Step[T]
	current int
	form    *T
}

// New returns a flow over form positioned at the first step.
func New[T any](form *T, steps ...Step[T]) *Flow[T] {
	return &Flow[T]{steps: steps, form: form}
}

// Form returns the form being filled in.
func (f *Flow[T]) Form() *T { return f.form }

// Len returns the number of steps.
func (f *Flow[T]) Len() int { return len(f.steps) }

// Index returns the zero-based position of the current step. It equals Len
// once the flow is done.
func (f *Flow[T]) Index() int { return f.current }

// Current returns the current step name, or "" when done.
func (f *Flow[T]) Current() string {
	if f.Done() {
		return ""
	}
	return f.steps[f.current].Name
}

// Done reports whether every step has been passed.
func (f *Flow[T]) Done() bool { return f.current >= len(f.steps) }

// Next validates the current step and advances past it.
func (f *Flow[T]) Next() error {
	if f.Done() {
		return ErrFinished
	}
	s := f.steps[f.current]
	if s.Validate != nil {
		if err := s.Validate(f.form); err != nil {
			return &StepError{Step: s.Name, Index: f.current, Err: err}
		}
	}
	f.current++
	return nil
}

// Back returns to the previous step. It reports false on the first step,
// meaning the caller should leave the flow.
func (f *Flow[T]) Back() bool {
	if f.current == 0 {
		return false
	}
	f.current--
	return true
}

// Run advances through every remaining step, stopping at the first failure.
func (f *Flow[T]) Run() error {
	for !f.Done() {
		if err := f.Next(); err != nil {
			return err
		}
	}
	return nil
}
