package module

import (
	mw "wikipub/internal/adapters/mediawiki"
	"wikipub/internal/services/wiki/domain"
	"wikipub/internal/services/wiki/service"
)

// Ports holds the ports exposed by the wiki module
type Ports struct {
	// Publisher runs render, login and write for callers holding their own credentials
	Publisher *service.Svc

	// API serves HTTP requests with the configured account
	API domain.ServicePort

	// Client answers readiness probes
	Client *mw.Client
}
