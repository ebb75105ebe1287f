// File: preset/web.go
package preset

import (
	"strings"

	"github.com/confweave/config"
)

// webDebug is shared by every Web instance; the cache of its value
// lives on each Config, not on the binding.
var webDebug = config.MustProperty("web.debug", config.Bool(),
	config.Default(false), config.Cached())

// Web is the preset for web applications: a debug toggle plus the raw
// [web] table in the upper-cased form web frameworks conventionally
// expect for their settings mapping.
type Web struct {
	Logging
}

// NewWeb wraps c in the web preset.
func NewWeb(c *config.Config) Web {
	return Web{Logging{Conf: c}}
}

// Debug reports whether debug mode is enabled. Bound to web.debug with
// a false default; WEB_DEBUG overrides the file.
func (w Web) Debug() (bool, error) {
	v, err := webDebug.Value(w.Conf)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Settings returns the [web] table with upper-cased keys. A missing or
// non-table [web] yields an empty map.
func (w Web) Settings() map[string]any {
	table, err := w.Conf.Table("web")
	if err != nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(table))
	for k, v := range table {
		out[strings.ToUpper(k)] = v
	}
	return out
}

// OnLoaded runs the given hooks in declaration order once the
// application is ready, stopping at the first error.
func (w Web) OnLoaded(hooks ...func(Web) error) error {
	for _, hook := range hooks {
		if err := hook(w); err != nil {
			return err
		}
	}
	return nil
}
