package api

import (
	"time"

	domain "github.com/example/taskflow/domain/task"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	// Health check endpoint
	m.app.Get("/health", m.healthHandler)

	api := m.app.Group(m.cfg.APIPrefix)
	api.Get("/health", m.healthHandler)
	api.Get("/activity", m.listActivity)

	// Task endpoints
	tasks := api.Group("/tasks")
	tasks.Get("/", m.listTasks)
	tasks.Post("/", m.createTask)
	tasks.Put("/:id", m.updateTask)
	tasks.Delete("/:id", m.deleteTask)

	// Anything not matched above
	m.app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(Envelope{Message: msgRouteNotFound})
	})
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Success:   true,
		Message:   m.cfg.ServiceName + " API is running",
		Timestamp: time.Now().UTC(),
	})
}

// listTasks handles GET /tasks.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	tasks, err := m.taskPort.ListTasks(c.UserContext())
	if err != nil {
		return m.fail(c, err, msgFetchFailed)
	}

	count := len(tasks)
	return c.JSON(Envelope{
		Success: true,
		Count:   &count,
		Data:    tasks,
	})
}

// createTask handles POST /tasks.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Envelope{Message: msgInvalidBody})
	}

	created, err := m.taskPort.CreateTask(c.UserContext(), req.toService())
	if err != nil {
		return m.fail(c, err, msgCreateFailed)
	}

	return c.Status(fiber.StatusCreated).JSON(Envelope{
		Success: true,
		Message: msgCreated,
		Data:    created,
	})
}

// updateTask handles PUT /tasks/:id.
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Envelope{Message: msgInvalidBody})
	}

	updated, err := m.taskPort.UpdateTask(c.UserContext(), req.toService(c.Params("id")))
	if err != nil {
		return m.fail(c, err, msgUpdateFailed)
	}

	return c.JSON(Envelope{
		Success: true,
		Message: msgUpdated,
		Data:    updated,
	})
}

// deleteTask handles DELETE /tasks/:id.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	deleted, err := m.taskPort.DeleteTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return m.fail(c, err, msgDeleteFailed)
	}

	return c.JSON(Envelope{
		Success: true,
		Message: msgDeleted,
		Data:    deleted,
	})
}

// listActivity handles GET /activity?limit=N.
func (m *APIModule) listActivity(c *fiber.Ctx) error {
	entries, err := m.activityPort.ListActivity(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		m.logger.Error("Activity lookup failed", "error", err, "requestId", requestID(c))
		return c.Status(fiber.StatusInternalServerError).JSON(Envelope{Message: msgActivityFailed})
	}

	count := len(entries)
	return c.JSON(Envelope{
		Success: true,
		Count:   &count,
		Data:    entries,
	})
}

// fail writes the failure envelope for err. Storage faults are logged with
// their cause and answered with faultMessage only.
func (m *APIModule) fail(c *fiber.Ctx, err error, faultMessage string) error {
	kind := domain.KindOf(err)
	status, message := statusFor(kind, faultMessage)
	if status == fiber.StatusInternalServerError {
		m.logger.Error("Request failed",
			"method", c.Method(), "path", c.Path(), "error", err, "requestId", requestID(c))
	}

	return c.Status(status).JSON(Envelope{
		Message: message,
		Errors:  fieldErrors(domain.Violations(err)),
	})
}

// parseBody decodes a JSON body into out. An empty body decodes as {}.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}
