package scheduler

import "errors"

var ErrInvalidStartURL = errors.New("start URL is not crawlable")
