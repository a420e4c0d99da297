// Package module defines the modkit module contract and the set the API mounts
package module

import (
	phttp "wikipub/internal/platform/net/http"
)

// Module is what the API mounts; it lives apart from modkit so port types can import it
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
