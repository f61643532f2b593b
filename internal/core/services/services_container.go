package services

import (
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/providers"
	portsrepo "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/repositories"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	rateSource providers.RateSource,
	rateCache providers.RateCache,
	notifier providers.AlertNotifier,
) *portssvc.ServiceContainer {
	// Create the container structure first
	container := &portssvc.ServiceContainer{}

	// Currency metadata has no dependencies beyond the provider and cache
	container.Currency = NewCurrencyService(cfg, rateSource, rateCache)

	// Alerts must exist before the rate service so fresh snapshots can be
	// evaluated against them
	container.Alert = NewAlertService(rateCache, notifier)

	container.Rate = NewRateService(cfg, rateSource, rateCache, container.Currency,
		WithAlertEvaluator(container.Alert),
	)

	container.Subscription = NewSubscriptionService(repos.SubscriptionRepo)

	// Reporting converts through the rate service, so it comes after
	container.Reporting = NewReportingService(
		repos.SubscriptionRepo,
		repos.UserRepo,
		container.Rate,
		container.Currency,
	)

	container.Budget = NewBudgetService(repos.BudgetRepo, container.Reporting)

	container.User = NewUserService(repos.UserRepo)

	// Initialize TokenService
	container.TokenService = NewTokenService(cfg, container.User)

	// Initialize GoogleOAuthHandlerSvcFacade
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
