package wizard_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtruck/internal/wizard"
)

type form struct {
	Name string
	Age  int
}

var errMissing = errors.New("missing")

func newFlow(f *form) *wizard.Flow[form] {
	return wizard.New(f,
		wizard.Step[form]{Name: "name", Validate: func(f *form) error {
			if f.Name == "" {
				return errMissing
			}
			return nil
		}},
		wizard.Step[form]{Name: "age", Validate: func(f *form) error {
			if f.Age <= 0 {
				return errMissing
			}
			return nil
		}},
		wizard.Step[form]{Name: "review"},
	)
}

func TestFlow_NextValidatesCurrentStep(t *testing.T) {
	f := &form{}
	flow := newFlow(f)
	assert.Equal(t, "name", flow.Current())

	err := flow.Next()
	var stepErr *wizard.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "name", stepErr.Step)
	assert.ErrorIs(t, err, errMissing)
	assert.Equal(t, 0, flow.Index())

	f.Name = "Ravi"
	require.NoError(t, flow.Next())
	assert.Equal(t, "age", flow.Current())
}

func TestFlow_Back(t *testing.T) {
	flow := newFlow(&form{Name: "Ravi"})
	assert.False(t, flow.Back(), "first step leaves the flow")

	require.NoError(t, flow.Next())
	assert.True(t, flow.Back())
	assert.Equal(t, "name", flow.Current())
}

func TestFlow_Run(t *testing.T) {
	flow := newFlow(&form{Name: "Ravi"})
	err := flow.Run()
	var stepErr *wizard.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Index)
	assert.Contains(t, err.Error(), "step 2 (age)")

	flow.Form().Age = 30
	require.NoError(t, flow.Run())
	assert.True(t, flow.Done())
	assert.Equal(t, "", flow.Current())
	assert.ErrorIs(t, flow.Next(), wizard.ErrFinished)
}
