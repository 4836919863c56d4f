package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/victorbarbieri91/zyra-billing/internal/application/auth"
	"github.com/victorbarbieri91/zyra-billing/internal/application/billing"
	"github.com/victorbarbieri91/zyra-billing/internal/application/timesheet"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	Ledger       *timesheet.Ledger
	Consolidator *billing.Consolidator
	RPSUC        *billing.RPSUseCase
	ContractUC   *billing.ContractUseCase
	TaxUC        *billing.TaxUseCase
	AlertUC      *billing.AlertUseCase
	JWTSecret    string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register-office", authHandler.RegisterOffice)
	authGroup.Post("/login", authHandler.Login)

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Usuários (protegido; apenas sócios cadastram membros)
	users := protected.Group("/users")
	users.Post("/", RequireRole(entity.RoleSocio), authHandler.RegisterUser)

	// Timesheet (protegido)
	ts := protected.Group("/timesheet")
	timesheetHandler := NewTimesheetHandler(deps.Ledger)
	ts.Post("/", timesheetHandler.Create)
	ts.Get("/", timesheetHandler.List)
	ts.Put("/:id", timesheetHandler.Edit)
	ts.Post("/approve", RequireRole(entity.RoleSocio, entity.RoleAdvogado), timesheetHandler.Approve)
	ts.Post("/reject", RequireRole(entity.RoleSocio, entity.RoleAdvogado), timesheetHandler.Reject)
	ts.Post("/:id/reverse-approval", RequireRole(entity.RoleSocio, entity.RoleAdvogado), timesheetHandler.ReverseApproval)

	// Contratos (protegido)
	contracts := protected.Group("/contracts")
	contractHandler := NewContractHandler(deps.ContractUC)
	contracts.Post("/", RequireRole(entity.RoleSocio), contractHandler.Create)
	contracts.Get("/:id", contractHandler.Get)
	protected.Get("/clients/:id/contracts", contractHandler.ListByClient)

	// Faturas (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Consolidator, deps.RPSUC)
	invoices.Post("/", RequireRole(entity.RoleSocio, entity.RoleAdvogado), invoiceHandler.Build)
	invoices.Get("/:id", invoiceHandler.Get)
	invoices.Get("/:id/annex", invoiceHandler.Annex)
	invoices.Get("/:id/rps", RequireRole(entity.RoleSocio), invoiceHandler.ExportRPS)

	// Tributário (protegido)
	tax := protected.Group("/tax")
	taxHandler := NewTaxHandler(deps.TaxUC)
	tax.Get("/config", taxHandler.GetConfig)
	tax.Put("/config", RequireRole(entity.RoleSocio), taxHandler.UpsertConfig)
	tax.Post("/preview", taxHandler.Preview)

	// Alertas de cobrança por ato (protegido)
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alerts.Post("/acts", alertHandler.RegisterAct)
	alerts.Get("/", alertHandler.List)
	alerts.Post("/:id/confirm", RequireRole(entity.RoleSocio, entity.RoleAdvogado), alertHandler.Confirm)
	alerts.Post("/:id/dismiss", RequireRole(entity.RoleSocio, entity.RoleAdvogado), alertHandler.Dismiss)
}
