package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/cvfolio/cvfolio/api/http/presenter"
	"github.com/cvfolio/cvfolio/pkg/document"
)

// DocumentsHandler manages uploaded CV files and their extracted profiles.
type DocumentsHandler struct {
	svc      *document.Service
	maxBytes int64
}

func NewDocumentsHandler(svc *document.Service) *DocumentsHandler {
	return &DocumentsHandler{svc: svc, maxBytes: document.MaxUploadBytes}
}

// Upload stores a CV file and extracts its text.
// @Summary Upload CV document
// @Description Accepts PDF or DOCX, stores the original and extracts its text.
// @Tags        documents
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "CV file (pdf or docx)"
// @Security    BearerAuth
// @Success     201 {object} presenter.Response{data=document.Document}
// @Failure     400 {object} presenter.ErrorResponse
// @Failure     401 {object} presenter.ErrorResponse
// @Failure     413 {object} presenter.ErrorResponse
// @Router      /cv/document [post]
func (h *DocumentsHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, fiber.StatusBadRequest, "fichier requis (pdf ou docx)")
	}
	if fh.Size > h.maxBytes {
		return fmt.Errorf("%w: max %d MiB", document.ErrTooLarge, h.maxBytes>>20)
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "impossible d'ouvrir le fichier")
	}
	defer file.Close()
	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return err
	}
	doc, err := h.svc.Upload(c.UserContext(), fh.Filename, data)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusCreated, "Document enregistré", doc)
}

// List returns uploaded documents, newest first.
// @Summary List CV documents
// @Tags    documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} presenter.Response{data=[]document.Document}
// @Router  /cv/documents [get]
func (h *DocumentsHandler) List(c *fiber.Ctx) error {
	docs, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	return presenter.List(c, docs)
}

// Extract asks the chat model for a structured profile.
// @Summary Extract profile
// @Tags    documents
// @Produce json
// @Param   id path int true "document id"
// @Security BearerAuth
// @Success 200 {object} presenter.Response{data=document.ProfileRecord}
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /cv/documents/{id}/extract [post]
func (h *DocumentsHandler) Extract(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	rec, err := h.svc.Extract(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.Success(c, fiber.StatusOK, rec)
}

// Import merges an extracted profile into the CV.
// @Summary Import profile into CV
// @Tags    documents
// @Produce json
// @Param   id path int true "document id"
// @Security BearerAuth
// @Success 200 {object} presenter.Response{data=document.ImportResult}
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /cv/documents/{id}/import [post]
func (h *DocumentsHandler) Import(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	res, err := h.svc.Import(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, "Profil importé dans le CV", res)
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("%w: max %d MiB", document.ErrTooLarge, max>>20)
	}
	return b, nil
}
