package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ovenmade/ovenmade-backend/api/controllers"
	webhookcontrollers "github.com/ovenmade/ovenmade-backend/api/controllers/webhooks"
	"github.com/ovenmade/ovenmade-backend/api/middleware"
	"github.com/ovenmade/ovenmade-backend/internal/bakers"
	"github.com/ovenmade/ovenmade-backend/internal/catalog"
	"github.com/ovenmade/ovenmade-backend/internal/leads"
	"github.com/ovenmade/ovenmade-backend/internal/orders"
	"github.com/ovenmade/ovenmade-backend/internal/payments"
	"github.com/ovenmade/ovenmade-backend/internal/quotes"
	"github.com/ovenmade/ovenmade-backend/pkg/config"
	"github.com/ovenmade/ovenmade-backend/pkg/db"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
	"github.com/ovenmade/ovenmade-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	bakersService bakers.Service,
	catalogService catalog.Service,
	quotesService quotes.Service,
	paymentsService payments.Service,
	ordersService orders.Service,
	leadsService leads.Service,
	processorWebhookService webhookcontrollers.ProcessorWebhookService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	publicPolicy := middleware.NewPublicRateLimitPolicy(
		"calculator",
		cfg.RateLimit.PublicWindow,
		cfg.RateLimit.PublicIPLimit,
		cfg.RateLimit.PublicEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if redisClient != nil {
				r.Use(middleware.PublicRateLimit(publicPolicy, redisClient, logg))
			}
			r.Post("/bakers/{bakerId}/estimate", controllers.PublicEstimate(leadsService, logg))
			r.Post("/bakers/{bakerId}/leads", controllers.PublicLeadCapture(leadsService, logg))
			r.Post("/quotes/{quoteId}/accept", controllers.PublicQuoteAccept(quotesService, logg))
			r.Post("/quotes/{quoteId}/decline", controllers.PublicQuoteDecline(quotesService, logg))
		})
		r.Get("/quotes/{quoteId}", controllers.PublicQuoteGet(quotesService, logg))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/processor", webhookcontrollers.ProcessorWebhook(processorWebhookService, cfg.Webhook.ProcessorSecret, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Route("/v1/quotes", func(r chi.Router) {
			r.Post("/", controllers.QuoteCreate(quotesService, logg))
			r.Get("/", controllers.QuoteList(quotesService, logg))
			r.Get("/{quoteId}", controllers.QuoteGet(quotesService, logg))
			r.Patch("/{quoteId}", controllers.QuoteUpdate(quotesService, logg))
			r.Post("/{quoteId}/send", controllers.QuoteSend(quotesService, logg))
			r.Post("/{quoteId}/accept", controllers.QuoteAccept(quotesService, logg))
			r.Post("/{quoteId}/decline", controllers.QuoteDecline(quotesService, logg))
			r.Post("/{quoteId}/revert", controllers.QuoteRevert(quotesService, logg))
			r.Post("/{quoteId}/duplicate", controllers.QuoteDuplicate(quotesService, logg))
			r.Post("/{quoteId}/archive", controllers.QuoteArchive(quotesService, logg))
			r.Post("/{quoteId}/unarchive", controllers.QuoteUnarchive(quotesService, logg))
			r.Post("/{quoteId}/payment-requests", controllers.PaymentRequestCreate(paymentsService, logg))
			r.Get("/{quoteId}/deposit", controllers.RequiredDeposit(paymentsService, logg))
			r.Get("/{quoteId}/payments", controllers.PaymentsListByQuote(paymentsService, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Get("/calendar", controllers.OrdersCalendar(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
			r.Post("/{orderId}/fulfillment", controllers.OrderMoveFulfillment(ordersService, logg))
		})

		r.Route("/v1/catalog", func(r chi.Router) {
			r.Post("/", controllers.CatalogCreate(catalogService, logg))
			r.Get("/", controllers.CatalogList(catalogService, logg))
			r.Patch("/{entryId}", controllers.CatalogUpdate(catalogService, logg))
			r.Delete("/{entryId}", controllers.CatalogDelete(catalogService, logg))
		})

		r.Route("/v1/settings", func(r chi.Router) {
			r.Get("/", controllers.BakerSettings(bakersService, logg))
			r.Put("/", controllers.BakerSettingsUpdate(bakersService, logg))
		})

		r.Get("/v1/leads", controllers.LeadsList(leadsService, logg))
	})

	return r
}
