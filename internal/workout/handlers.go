package workout

import (
	"errors"

	"backend-workouttrack/internal/observability"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/sessions", authMiddleware, func(c *fiber.Ctx) error {
		var req Session
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.UserID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id required")
		}
		session, err := svc.StartSession(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	})

	r.Post("/sessions/:id/samples", authMiddleware, func(c *fiber.Ctx) error {
		var req Sample
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		snap, err := svc.IngestSample(c.Context(), c.Params("id"), req)
		if errors.Is(err, ErrNotLive) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		observability.RecordSampleIngested("http")
		return c.Status(fiber.StatusCreated).JSON(snap)
	})

	r.Post("/sessions/:id/pause", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.PauseSession(c.Context(), c.Params("id")); err != nil {
			return sessionError(err)
		}
		return c.JSON(fiber.Map{"status": "paused"})
	})

	r.Post("/sessions/:id/resume", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.ResumeSession(c.Context(), c.Params("id")); err != nil {
			return sessionError(err)
		}
		return c.JSON(fiber.Map{"status": "active"})
	})

	r.Post("/sessions/:id/stop", authMiddleware, func(c *fiber.Ctx) error {
		session, err := svc.StopSession(c.Context(), c.Params("id"))
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(session)
	})

	r.Get("/sessions/:id/snapshot", func(c *fiber.Ctx) error {
		snap, err := svc.LiveSnapshot(c.Params("id"))
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(snap)
	})

	r.Get("/sessions/:id", func(c *fiber.Ctx) error {
		session, err := svc.GetSession(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(session)
	})

	r.Get("/sessions/:id/samples", func(c *fiber.Ctx) error {
		samples, err := svc.Samples(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(samples)
	})
}

func sessionError(err error) error {
	if errors.Is(err, ErrNotLive) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
