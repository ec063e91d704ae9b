package http

import "github.com/labstack/echo/v4"

// Handlers groups everything the router mounts.
type Handlers struct {
	Health        *Handler
	Separations   *SeparationHandler
	Notifications *NotificationHandler
}

// Register mounts the API. Health is public. Everything else runs behind
// authn (actor resolution) and then idempotency, in that order.
func Register(e *echo.Echo, h Handlers, authn, idempotency echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	api := e.Group("", authn, idempotency)

	s := h.Separations
	api.GET("/separations", s.ListCases)
	api.GET("/separations/:employee_id", s.GetCase)
	api.DELETE("/separations/:employee_id", s.DeleteCase)
	api.GET("/separations/:employee_id/documents", s.DownloadDocument)

	api.POST("/separations/:employee_id/resignation", s.SubmitResignation)
	api.POST("/separations/:employee_id/resignation/approve", s.ApproveResignation)
	api.POST("/separations/:employee_id/resignation/revert", s.RevertApproval)
	api.POST("/separations/:employee_id/dismissal", s.InitiateDismissal)

	api.PUT("/separations/:employee_id/exit-forms", s.ProvideExitForms)
	api.POST("/separations/:employee_id/exit-documents/:kind", s.SubmitExitDocument)
	api.POST("/separations/:employee_id/exit-documents/:kind/validate", s.ValidateExitDocument)
	api.POST("/separations/:employee_id/exit-documents/:kind/reject", s.RejectExitDocument)

	api.POST("/separations/:employee_id/final-documents", s.AttachFinalDocuments)
	api.POST("/separations/:employee_id/complete", s.MarkCompleted)
	api.POST("/separations/:employee_id/terminate", s.Terminate)

	api.PUT("/templates/exit-forms", s.SetTemplateDefaults)
	api.GET("/templates/exit-forms", s.GetTemplateDefaults)

	if h.Notifications != nil {
		api.GET("/notifications", h.Notifications.List)
	}
}
