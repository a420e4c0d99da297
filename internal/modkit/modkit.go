// Package modkit composes API modules from shared deps and options
package modkit

import "wikipub/internal/modkit/module"

// Module is what api.Mount composes. Worker modules with no routes
// implement MountRoutes as a no-op
type Module = module.Module
