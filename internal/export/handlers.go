package export

import (
	"backend-workouttrack/internal/workout"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *workout.Service, authMiddleware fiber.Handler) {
	r.Get("/sessions/:id/export.gpx", authMiddleware, func(c *fiber.Ctx) error {
		session, err := svc.GetSession(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		samples, err := svc.Samples(c.Context(), session.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		doc, err := Marshal(Build(session, samples))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		c.Set(fiber.HeaderContentType, "application/gpx+xml")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="workout-`+session.ID+`.gpx"`)
		return c.Send(doc)
	})
}
