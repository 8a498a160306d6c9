package mem

import (
	"errors"

	"github.com/jaredgorski/lc3-vm/translate"
)

var f = translate.From

var (
	// Image loader errors
	ErrImageOrigin    = errors.New(f("image origin missing"))
	ErrImageTruncated = errors.New(f("image truncated"))
)
