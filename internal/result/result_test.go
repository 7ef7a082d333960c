package result

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestOkAndErr(t *testing.T) {
	req := require.New(t)

	ok := Ok(42)
	req.True(ok.IsOk())
	req.Equal(42, ok.Unwrap())
	req.NoError(ok.Err())

	bad := Err[int](errBoom)
	req.False(bad.IsOk())
	req.ErrorIs(bad.UnwrapErr(), errBoom)
	v, err := bad.Get()
	req.Zero(v)
	req.ErrorIs(err, errBoom)
}

func TestExtractingWrongSidePanics(t *testing.T) {
	req := require.New(t)

	req.Panics(func() { Err[int](errBoom).Unwrap() })
	req.Panics(func() { _ = Ok(1).UnwrapErr() })
	req.Panics(func() { Err[int](nil) })
}

func TestMap(t *testing.T) {
	req := require.New(t)

	r := Map(Ok(7), strconv.Itoa)
	req.Equal("7", r.Unwrap())

	called := false
	e := Map(Err[int](errBoom), func(i int) string {
		called = true
		return strconv.Itoa(i)
	})
	req.False(called)
	req.ErrorIs(e.Err(), errBoom)
}

func TestFlatMapShortCircuits(t *testing.T) {
	req := require.New(t)

	half := func(i int) Result[int] {
		if i%2 != 0 {
			return Err[int](errors.New("odd"))
		}
		return Ok(i / 2)
	}

	req.Equal(4, FlatMap(Ok(8), half).Unwrap())
	req.EqualError(FlatMap(Ok(3), half).Err(), "odd")

	calls := 0
	r := FlatMap(Err[int](errBoom), func(i int) Result[int] {
		calls++
		return Ok(i)
	})
	req.Zero(calls)
	req.ErrorIs(r.Err(), errBoom)
}

func TestUseAndDo(t *testing.T) {
	req := require.New(t)

	var seen []int
	r := Ok(5).Use(func(i int) { seen = append(seen, i) })
	req.Equal(5, r.Unwrap())
	req.Equal([]int{5}, seen)

	Err[int](errBoom).Use(func(i int) { seen = append(seen, i) })
	req.Equal([]int{5}, seen)

	failed := Ok(5).Do(func(int) error { return errBoom })
	req.ErrorIs(failed.Err(), errBoom)

	passed := Ok(5).Do(func(int) error { return nil })
	req.Equal(5, passed.Unwrap())

	first := errors.New("first")
	kept := Err[int](first).Do(func(int) error { return errBoom })
	req.ErrorIs(kept.Err(), first)
}

func TestFromHelpers(t *testing.T) {
	req := require.New(t)
	missing := errors.New("missing")

	req.Equal(1, From(1, nil).Unwrap())
	req.ErrorIs(From(0, errBoom).Err(), errBoom)

	req.Equal("x", FromOptional("x", true, missing).Unwrap())
	req.ErrorIs(FromOptional("", false, missing).Err(), missing)

	req.ErrorIs(FromLookup("", false, errBoom, missing).Err(), errBoom)
	req.ErrorIs(FromLookup("", false, nil, missing).Err(), missing)
	req.Equal("y", FromLookup("y", true, nil, missing).Unwrap())
}

func TestMapErr(t *testing.T) {
	req := require.New(t)

	wrapped := MapErr(Err[int](errBoom), func(err error) error {
		return errors.Join(errors.New("ctx"), err)
	})
	req.ErrorIs(wrapped.Err(), errBoom)
	req.Equal(3, MapErr(Ok(3), func(error) error { return errBoom }).Unwrap())
}
