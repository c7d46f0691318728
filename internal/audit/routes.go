package audit

import (
	"context"
	"strconv"

	"mantisbeanstalk/internal/errmsg"
	"mantisbeanstalk/internal/models"
	"mantisbeanstalk/internal/utils"

	"github.com/gofiber/fiber/v3"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Lister reads back recorded requests.
type Lister interface {
	List(ctx context.Context, limit int64) ([]models.AuditRecord, error)
}

type listAuditsResponse struct {
	Audits []models.AuditRecord `json:"audits"`
}

// Routes wires the audit browsing endpoint under /audits, guarded by auth.
func Routes(app fiber.Router, lister Lister, auth fiber.Handler) {
	app.Get("/audits", auth, listHandler(lister))
}

// listHandler returns the most recent hook requests.
// @Summary List audits
// @Tags Mantis Audits
// @Security HyperUserAuth
// @Produce json
// @Param limit query int false "Number of records (default 50, max 500)"
// @Success 200 {object} listAuditsResponse
// @Failure 500 {object} errmsg._InternalServerError
// @Router /mantis/audits [get]
func listHandler(lister Lister) fiber.Handler {
	return func(c fiber.Ctx) error {
		limit := int64(defaultListLimit)
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
				limit = min(n, maxListLimit)
			}
		}

		records, err := lister.List(c.RequestCtx(), limit)
		if err != nil {
			return utils.StatusError(c, errmsg.InternalServerError(err))
		}

		return c.JSON(listAuditsResponse{Audits: records})
	}
}
