package config

import "errors"

var ErrInvalidConfig = errors.New("invalid crawl config")
