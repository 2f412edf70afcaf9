package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"precast-bim/internal/authoring/models"
	"precast-bim/internal/authoring/repository"
	"precast-bim/internal/authoring/service"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Authoring Handler
// ============================================================

type AuthoringHandler struct {
	svc *service.Service
	log *zap.SugaredLogger
}

func NewAuthoringHandler(svc *service.Service, log *zap.SugaredLogger) *AuthoringHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AuthoringHandler{svc: svc, log: log.With("component", "handlers")}
}

func (h *AuthoringHandler) Routes(router fiber.Router) {
	router.Post("/walls", h.CreateWall)
	router.Post("/walls/preview", h.PreviewWall)
	router.Post("/slabs", h.CreateSlab)
	router.Post("/slabs/preview", h.PreviewSlab)

	router.Get("/documents", h.ListDocuments)
	router.Get("/documents/:id", h.GetDocument)
	router.Get("/documents/:id/file", h.GetDocumentFile)
}

// CreateWall пишет IFC-документ со стеной и возвращает запись каталога.
func (h *AuthoringHandler) CreateWall(c fiber.Ctx) error {
	var req models.WallRequest
	if err := decodeJSON(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := h.svc.AuthorWall(c.Context(), &req)
	if err != nil {
		return h.fail(c, "create wall", err)
	}
	return c.Status(http.StatusCreated).JSON(rec)
}

func (h *AuthoringHandler) CreateSlab(c fiber.Ctx) error {
	var req models.SlabRequest
	if err := decodeJSON(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := h.svc.AuthorSlab(c.Context(), &req)
	if err != nil {
		return h.fail(c, "create slab", err)
	}
	return c.Status(http.StatusCreated).JSON(rec)
}

// PreviewWall возвращает SVG-фасад стены без записи документа.
func (h *AuthoringHandler) PreviewWall(c fiber.Ctx) error {
	var req models.WallRequest
	if err := decodeJSON(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	svg, err := h.svc.PreviewWall(&req)
	if err != nil {
		return h.fail(c, "preview wall", err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

func (h *AuthoringHandler) PreviewSlab(c fiber.Ctx) error {
	var req models.SlabRequest
	if err := decodeJSON(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	svg, err := h.svc.PreviewSlab(&req)
	if err != nil {
		return h.fail(c, "preview slab", err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// ListDocuments поддерживает фильтр ?kind=wall|slab.
func (h *AuthoringHandler) ListDocuments(c fiber.Ctx) error {
	kind := c.Query("kind")
	switch kind {
	case "", models.KindWall, models.KindSlab:
	default:
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("unknown kind %q", kind)})
	}

	docs, err := h.svc.Documents(c.Context(), kind)
	if err != nil {
		return h.fail(c, "list documents", err)
	}
	return c.JSON(fiber.Map{"documents": docs})
}

func (h *AuthoringHandler) GetDocument(c fiber.Ctx) error {
	rec, err := h.svc.Document(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "get document", err)
	}
	return c.JSON(rec)
}

func (h *AuthoringHandler) GetDocumentFile(c fiber.Ctx) error {
	rec, err := h.svc.Document(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "get document file", err)
	}
	c.Set("Content-Type", "application/x-step")
	return c.Download(rec.Path, rec.Name+".ifc")
}

// ============================================================
// Helpers
// ============================================================

// decodeJSON сохраняет целые числа целыми (UseNumber), иначе IfcInteger превратился бы в IfcReal.
func decodeJSON(body []byte, out any) error {
	if len(body) == 0 {
		return errors.New("body required")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return errors.New("invalid JSON payload")
	}
	return nil
}

func (h *AuthoringHandler) fail(c fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case service.IsClientError(err):
		h.log.Infow("rejected request", "op", op, "error", err)
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	h.log.Errorw("request failed", "op", op, "error", err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
