package modkit

import (
	"net/http"

	"wikipub/internal/platform/config"
	"wikipub/internal/platform/logger"
)

// Deps are handed to every module constructor; the zero value is usable
type Deps struct {
	// Log is the parent for module loggers; nil means the process root
	Log *logger.Logger
	Cfg config.Conf

	// Transport overrides the outbound wiki transport; nil uses the default
	Transport http.RoundTripper
}

// Logger returns a child of Log tagged with component
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log == nil {
		return logger.Named(component)
	}
	l := d.Log.With().Str("component", component).Logger()
	return &l
}
