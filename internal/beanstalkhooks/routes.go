// Package beanstalkhooks exposes the Beanstalk commit hook endpoint.
package beanstalkhooks

import "github.com/gofiber/fiber/v3"

// Routes wires the hook endpoint under /beanstalk.
func Routes(app fiber.Router, h *Handler) {
	// POST /mantis/beanstalk applies commit message directives to the tracker.
	app.Post("/beanstalk", h.commitsHandler)
}
