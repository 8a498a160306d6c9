package console

import (
	"errors"

	"github.com/jaredgorski/lc3-vm/translate"
)

var f = translate.From

var (
	// Console errors
	ErrInputEmpty  = errors.New(f("input empty"))
	ErrNotTerminal = errors.New(f("not a terminal"))
)
