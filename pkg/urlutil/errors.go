package urlutil

import "errors"

var ErrUnsupportedScheme = errors.New("unsupported URL scheme")
var ErrMissingHost = errors.New("URL hostname is missing")
var ErrNotAbsolute = errors.New("URL is not absolute")
var ErrUnparseable = errors.New("URL cannot be parsed")
