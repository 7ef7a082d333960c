package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_KindAndMessage(t *testing.T) {
	req := require.New(t)

	err := NotFound("Movie not found")

	req.EqualError(err, "Movie not found")
	req.ErrorIs(err, ErrNotFound)
	req.NotErrorIs(err, ErrAlreadyExists)
	req.Equal(ErrNotFound, KindOf(err))
}

func TestKindOf(t *testing.T) {
	req := require.New(t)

	wrapped := fmt.Errorf("create screening: %w", SchedulingConflict("There is an overlapping screening"))
	req.Equal(ErrSchedulingConflict, KindOf(wrapped))
	req.Nil(KindOf(errors.New("disk full")))
	req.Nil(KindOf(nil))
}
