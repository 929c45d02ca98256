// Package envconst reads tunables from environment variables.
// A value is parsed once and cached for the lifetime of the process.
// Malformed values panic, they are programming or deployment errors.
package envconst

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

var cache sync.Map

func lookup(varname string, parse func(string) (interface{}, error)) (interface{}, bool) {
	if v, ok := cache.Load(varname); ok {
		return v, true
	}
	e := os.Getenv(varname)
	if e == "" {
		return nil, false
	}
	v, err := parse(e)
	if err != nil {
		panic(fmt.Sprintf("invalid value for environment variable %s: %s", varname, err))
	}
	v, _ = cache.LoadOrStore(varname, v)
	return v, true
}

func Duration(varname string, def time.Duration) time.Duration {
	v, ok := lookup(varname, func(s string) (interface{}, error) { return time.ParseDuration(s) })
	if !ok {
		return def
	}
	return v.(time.Duration)
}

func Int(varname string, def int) int {
	v, ok := lookup(varname, func(s string) (interface{}, error) {
		i, err := strconv.ParseInt(s, 10, strconv.IntSize)
		return int(i), err
	})
	if !ok {
		return def
	}
	return v.(int)
}

func Int64(varname string, def int64) int64 {
	v, ok := lookup(varname, func(s string) (interface{}, error) { return strconv.ParseInt(s, 10, 64) })
	if !ok {
		return def
	}
	return v.(int64)
}

func Bool(varname string, def bool) bool {
	v, ok := lookup(varname, func(s string) (interface{}, error) { return strconv.ParseBool(s) })
	if !ok {
		return def
	}
	return v.(bool)
}
