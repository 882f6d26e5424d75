package controllers

import (
	"climate-hub/airquality"
	"climate-hub/notify"
	"climate-hub/payment"
	"climate-hub/services"
	"climate-hub/utils"
)

var (
	reportStore services.ReportStore
	faqStore    services.FaqStore
	orderStore  services.OrderStore
	photoStore  services.PhotoStore = services.InlinePhotoStore{}
	notifier    notify.Notifier

	airQuality *airquality.Service

	gateway         payment.Gateway
	mailer          utils.Mailer
	paymentCurrency = "usd"

	adminUsername     string
	adminPasswordHash string
	jwtSecret         []byte
)

// InitStores hands the persistence layer to the handlers.
func InitStores(reports services.ReportStore, faqs services.FaqStore, orders services.OrderStore) {
	reportStore = reports
	faqStore = faqs
	orderStore = orders
}

func InitPhotoStore(store services.PhotoStore) {
	photoStore = store
}

// InitNotifier sets who hears about new reports. nil disables alerts.
func InitNotifier(n notify.Notifier) {
	notifier = n
}

func InitAirQuality(svc *airquality.Service) {
	airQuality = svc
}

// InitShop configures checkout. m may be nil to skip receipts.
func InitShop(g payment.Gateway, m utils.Mailer, currency string) {
	gateway = g
	mailer = m
	if currency != "" {
		paymentCurrency = currency
	}
}

// InitAdmin sets the single moderation account and the token signing key.
func InitAdmin(username, passwordHash, secret string) {
	adminUsername = username
	adminPasswordHash = passwordHash
	jwtSecret = []byte(secret)
}
