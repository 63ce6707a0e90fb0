package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appfiscal "github.com/grupovoltera/erp-api/internal/application/fiscal"
	infracert "github.com/grupovoltera/erp-api/internal/infrastructure/cert"
	"github.com/grupovoltera/erp-api/internal/infrastructure/nuvemfiscal"
	infrapdf "github.com/grupovoltera/erp-api/internal/infrastructure/pdf"
	"github.com/grupovoltera/erp-api/internal/infrastructure/postgres"
	httpRouter "github.com/grupovoltera/erp-api/internal/interfaces/http"
	"github.com/grupovoltera/erp-api/pkg/config"
	"github.com/grupovoltera/erp-api/pkg/logger"
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
		Str("ambiente_fiscal", cfg.NuvemFiscal.Ambiente).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	configRepo := postgres.NewFiscalConfigRepository(pool)
	invoiceRepo := postgres.NewFiscalInvoiceRepository(pool)
	proposalRepo := postgres.NewProposalRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cliente Nuvem Fiscal: um TokenManager por processo, cache por client_id.
	tokens := nuvemfiscal.NewTokenManager(cfg.NuvemFiscal.AuthURL)
	provider := nuvemfiscal.NewClient(cfg.NuvemFiscal.BaseURL, tokens)

	certs := infracert.NewInspector()
	espelho := infrapdf.NewEspelhoGenerator()

	configUC := appfiscal.NewConfigUseCase(configRepo, provider, certs, log)
	emitUC := appfiscal.NewEmitInvoiceUseCase(
		configRepo, proposalRepo, clientRepo, invoiceRepo,
		provider, cfg.NuvemFiscal.Ambiente, log,
	)
	lifecycleUC := appfiscal.NewLifecycleUseCase(configRepo, invoiceRepo, provider, txRunner, log)
	downloadUC := appfiscal.NewDownloadUseCase(configRepo, invoiceRepo, provider, espelho, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ConfigUC:    configUC,
		EmitUC:      emitUC,
		LifecycleUC: lifecycleUC,
		DownloadUC:  downloadUC,
		JWTSecret:   cfg.JWT.Secret,
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

	log.Info().Msg("aplicação parada")
}
