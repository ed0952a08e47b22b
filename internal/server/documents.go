package server

import (
	"context"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kehinde-ajayi/docchat/internal/common"
	"github.com/kehinde-ajayi/docchat/internal/session"
)

func (s *Server) docResponse(d session.Document) DocumentResponse {
	return DocumentResponse{
		Name:       d.Name,
		Kind:       d.Kind,
		TextChars:  len(d.Text),
		Turns:      s.deps.Store.TurnCount(d.Name),
		Active:     d.Name == s.deps.Store.ActiveName(),
		UploadedAt: d.UploadedAt,
	}
}

// uploadDocument receives a multipart file, persists it, extracts its text,
// and registers the document as active. Extraction failure leaves the session
// untouched and removes the saved file.
func (s *Server) uploadDocument(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: missing multipart field %q", common.ErrInvalidInput, "file")
	}

	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("%w: open upload: %v", common.ErrInvalidInput, err)
	}
	defer func() {
		_ = src.Close()
	}()

	ctx := c.UserContext()
	up, err := s.deps.Ingestor.SaveUpload(ctx, fh.Filename, src)
	if err != nil {
		return err
	}

	extractCtx := ctx
	if s.cfg.Extract.Timeout > 0 {
		var cancel context.CancelFunc
		extractCtx, cancel = common.WithTimeout(ctx, s.cfg.Extract.Timeout)
		defer cancel()
	}

	res, err := s.deps.Extractor.Extract(extractCtx, up.Path)
	if err != nil {
		// Don't keep files the session will never reference. A failed
		// re-upload keeps the path: the prior document is still registered
		// against it.
		if !up.Overwrote {
			if rmErr := os.Remove(up.Path); rmErr != nil {
				s.log.Warn("upload.cleanup_failed", zap.String("path", up.Path), zap.Error(rmErr))
			}
		}
		return err
	}

	doc := session.Document{
		Name:       up.Name,
		Text:       res.Text,
		Kind:       up.Kind,
		Path:       up.Path,
		UploadedAt: up.UploadedAt,
	}
	s.deps.Store.AddDocument(doc)
	if up.Overwrote && s.deps.Forgetter != nil {
		// Re-uploaded content invalidates any grounding the responder holds.
		s.deps.Forgetter.Forget(up.Name)
	}

	return c.Status(fiber.StatusCreated).JSON(SuccessResponse("document uploaded", UploadResponse{
		Document:    s.docResponse(doc),
		Overwrote:   up.Overwrote,
		ContentHash: up.HashHex,
		Method:      res.Method,
		Pages:       res.Pages,
		Warnings:    res.Warnings,
	}))
}

func (s *Server) listDocuments(c *fiber.Ctx) error {
	docs := s.deps.Store.List()
	out := DocumentListResponse{
		Documents: make([]DocumentResponse, 0, len(docs)),
		Active:    s.deps.Store.ActiveName(),
	}
	for _, d := range docs {
		out.Documents = append(out.Documents, s.docResponse(d))
	}
	return c.JSON(SuccessResponse("documents listed", out))
}

func (s *Server) activeDocument(c *fiber.Ctx) error {
	snap, ok := s.deps.Store.GetActive()
	if !ok {
		return common.ErrNoActiveDocument
	}
	return c.JSON(SuccessResponse("active document", s.docResponse(snap.Document)))
}

func (s *Server) activateDocument(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := s.deps.Store.SetActive(name); err != nil {
		return err
	}
	return c.JSON(SuccessResponse("document activated", fiber.Map{"active": name}))
}

func (s *Server) removeDocument(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := s.deps.Store.RemoveDocument(name); err != nil {
		return err
	}
	if s.deps.Forgetter != nil {
		s.deps.Forgetter.Forget(name)
	}
	return c.JSON(SuccessResponse("document removed", fiber.Map{
		"removed": name,
		"active":  s.deps.Store.ActiveName(),
	}))
}

func (s *Server) getTranscript(c *fiber.Ctx) error {
	name := c.Params("name")
	turns, err := s.deps.Store.Transcript(name)
	if err != nil {
		return err
	}
	out := TranscriptResponse{Document: name, Turns: make([]TurnResponse, 0, len(turns))}
	for _, t := range turns {
		out.Turns = append(out.Turns, TurnResponse{Role: t.Role, Message: t.Message, At: t.At})
	}
	return c.JSON(SuccessResponse("transcript", out))
}

func (s *Server) clearTranscript(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := s.deps.Store.ClearTranscript(name); err != nil {
		return err
	}
	if s.deps.Forgetter != nil {
		// A cleared transcript means a fresh conversation next time.
		s.deps.Forgetter.Forget(name)
	}
	return c.JSON(SuccessResponse("transcript cleared", fiber.Map{"document": name}))
}
