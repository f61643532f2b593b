package handlers

import (
	"regexp"
	"strings"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// registerBindingValidators installs the custom binding tags the request DTOs
// use. Gin shares one validator engine, so this only needs to run once before
// routes are served.
func registerBindingValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("currencycode", validateCurrencyCode)
	_ = v.RegisterValidation("billingcycle", validateBillingCycle)
}

// validateCurrencyCode accepts a 3-letter ISO 4217 style code in any casing.
// Services normalize to uppercase; unknown-but-well-formed codes stay valid
// because the rate provider supports more currencies than the built-in table.
func validateCurrencyCode(fl validator.FieldLevel) bool {
	return currencyCodePattern.MatchString(fl.Field().String())
}

// validateBillingCycle accepts the supported renewal cadences in any casing.
func validateBillingCycle(fl validator.FieldLevel) bool {
	switch domain.BillingCycle(strings.ToUpper(fl.Field().String())) {
	case domain.BillingWeekly, domain.BillingMonthly, domain.BillingQuarterly, domain.BillingYearly:
		return true
	}
	return false
}
