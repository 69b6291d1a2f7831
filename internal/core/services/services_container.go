package services

import (
	portsrepo "github.com/netbridge-bank/nb_backend/internal/core/ports/repositories"
	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
	"github.com/netbridge-bank/nb_backend/pkg/config"
)

// NewServiceContainer wires the service facades with their dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.NotifierSvcFacade) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The session store comes first; the other services reach live sessions
	// through it.
	container.Session = NewSessionService(repos, cfg.RestrictedAccounts)

	container.Auth = NewAuthService(cfg, repos, container.Session, notifier)
	container.Gate = NewGateService(cfg, container.Session, repos.Session)
	container.Transfer = NewTransferService(
		container.Session,
		repos.Transaction,
		repos.Notification,
		WithProcessingDelay(cfg.ProcessingDelay),
		WithPinLockout(cfg.MaxPinAttempts, cfg.PinLockoutWindow),
	)

	return container
}
