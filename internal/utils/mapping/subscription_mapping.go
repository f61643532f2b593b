package mapping

import (
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/models"
)

// ToModelSubscription converts a domain Subscription to a model Subscription
func ToModelSubscription(d domain.Subscription) models.Subscription {
	return models.Subscription{
		SubscriptionID:  d.SubscriptionID,
		UserID:          d.UserID,
		Name:            d.Name,
		Amount:          d.Amount,
		CurrencyCode:    d.CurrencyCode,
		BillingCycle:    string(d.BillingCycle),
		NextBillingDate: d.NextBillingDate,
		Category:        d.Category,
		Notes:           d.Notes,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
		DeletedAt:       d.DeletedAt,
	}
}

// ToDomainSubscription converts a model Subscription to a domain Subscription
func ToDomainSubscription(m models.Subscription) domain.Subscription {
	return domain.Subscription{
		SubscriptionID:  m.SubscriptionID,
		UserID:          m.UserID,
		Name:            m.Name,
		Amount:          m.Amount,
		CurrencyCode:    m.CurrencyCode,
		BillingCycle:    domain.BillingCycle(m.BillingCycle),
		NextBillingDate: m.NextBillingDate,
		Category:        m.Category,
		Notes:           m.Notes,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
		DeletedAt:       m.DeletedAt,
	}
}

// ToDomainSubscriptionSlice converts a slice of model Subscriptions to domain Subscriptions
func ToDomainSubscriptionSlice(ms []models.Subscription) []domain.Subscription {
	ds := make([]domain.Subscription, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSubscription(m)
	}
	return ds
}
