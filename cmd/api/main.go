package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/victorbarbieri91/zyra-billing/internal/application/auth"
	"github.com/victorbarbieri91/zyra-billing/internal/application/billing"
	"github.com/victorbarbieri91/zyra-billing/internal/application/timesheet"
	"github.com/victorbarbieri91/zyra-billing/internal/infrastructure/nfse"
	"github.com/victorbarbieri91/zyra-billing/internal/infrastructure/postgres"
	httpRouter "github.com/victorbarbieri91/zyra-billing/internal/interfaces/http"
	"github.com/victorbarbieri91/zyra-billing/pkg/config"
	"github.com/victorbarbieri91/zyra-billing/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	officeRepo := postgres.NewOfficeRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	contractRepo := postgres.NewContractRepository(pool)
	rateRepo := postgres.NewRoleRateRepository(pool)
	timesheetRepo := postgres.NewTimesheetRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	taxCfgRepo := postgres.NewTaxConfigRepository(pool)
	alertRepo := postgres.NewBillingAlertRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Exportador de RPS (layout ABRASF); sem certificado gera XML não assinado.
	rpsExporter, err := nfse.NewExporter(cfg.NFSe)
	if err != nil {
		log.Fatal().Err(err).Msg("carregar certificado NFS-e")
	}

	authUC := auth.NewUseCase(userRepo, officeRepo, cfg.JWT, log)
	ledger := timesheet.NewLedger(timesheetRepo, contractRepo, clientRepo, rateRepo, officeRepo, userRepo, log)
	consolidator := billing.NewConsolidator(txRunner, invoiceRepo, clientRepo, contractRepo, rateRepo, taxCfgRepo, log)
	rpsUC := billing.NewRPSUseCase(invoiceRepo, clientRepo, officeRepo, taxCfgRepo, rpsExporter, log)
	contractUC := billing.NewContractUseCase(contractRepo, clientRepo)
	taxUC := billing.NewTaxUseCase(taxCfgRepo)
	alertUC := billing.NewAlertUseCase(alertRepo, clientRepo, contractRepo, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI em local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Zyra Billing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		Ledger:       ledger,
		Consolidator: consolidator,
		RPSUC:        rpsUC,
		ContractUC:   contractUC,
		TaxUC:        taxUC,
		AlertUC:      alertUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
