package falcon9

import (
	"testing"

	"github.com/alecthomas/assert"
	"github.com/pkg/errors"
)

func TestErrors_wrapped(t *testing.T) {
	err := errors.Wrap(invalidState("ignite", "Merlin #1", "engine already ignited"), "stage FirstStage")
	assert.True(t, IsInvalidState(err))
	assert.False(t, IsInvalidArgument(err))
	assert.Equal(t, "stage FirstStage: ignite Merlin #1: engine already ignited", err.Error())

	var target *InvalidStateError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "engine already ignited", target.Reason)
}

func TestInvalidArgumentError(t *testing.T) {
	err := invalidArgument("consume", "tank LOX", -5, "amount must not be negative")
	assert.True(t, IsInvalidArgument(err))
	assert.Equal(t, "consume tank LOX: amount must not be negative (got -5)", err.Error())
	assert.False(t, IsInvalidState(nil))
}

func TestCatastrophicFailureError(t *testing.T) {
	err := errors.Wrap(catastrophicFailure("FirstStage", 9, 2), "fire")
	assert.True(t, IsCatastrophicFailure(err))
	assert.False(t, IsInvalidState(err))
	assert.Equal(t, "fire: catastrophic failure of stage FirstStage: 9 engines burned out, 2 tolerated", err.Error())
	assert.False(t, IsCatastrophicFailure(invalidState("fire", "stage X", "no engines running")))
}
