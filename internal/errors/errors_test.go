package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"gosilver/domain/core"
)

func TestWrap_KeepsSentinel(t *testing.T) {
	err := Wrap(core.NewFoldChangeError("bad"), "reading fold changes")
	assert.ErrorIs(t, err, core.ErrInvalidFoldChange)
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Contains(t, err.Error(), "reading fold changes")

	assert.Nil(t, Wrap(nil, "x"))
	assert.Nil(t, Wrapf(nil, "x %d", 1))
}

func TestWrap_KeepsInnerCode(t *testing.T) {
	inner := IOError("profile.tsv", os.ErrNotExist)
	err := Wrapf(inner, "loading %s", "profile")
	assert.Equal(t, CodeIOError, GetCode(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{core.NewIndexError(3, 2), CodeInvalidInput},
		{fmt.Errorf("x: %w", core.ErrInvalidExpressionFile), CodeInvalidInput},
		{core.ErrMismatchedProfile, CodeSimulationFailed},
		{core.NewGeneNotFoundError("g"), CodeNotFound},
		{ConfigInvalid("alpha"), CodeConfigInvalid},
		{stderrors.New("boom"), CodeInternalError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), tt.err.Error())
	}
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeSimulationFailed, InvalidInput("k too large"))
	assert.Equal(t, CodeSimulationFailed, GetCode(err))
	assert.Equal(t, "k too large", err.Error())

	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
	assert.Nil(t, WithCode(CodeIOError, nil))
}

func TestSimulationFailed(t *testing.T) {
	err := SimulationFailed("building repository", core.ErrInvalidSampleCount)
	assert.ErrorIs(t, err, core.ErrInvalidSampleCount)
	assert.Equal(t, "simulation failed while building repository: "+core.ErrInvalidSampleCount.Error(), err.Error())
}
