package server

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) exportDocumentText(c *fiber.Ctx) error {
	name := c.Params("name")
	text, err := s.deps.Exporter.DocumentText(name)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name+".txt"))
	return c.SendString(text)
}

func (s *Server) exportTranscript(c *fiber.Ctx) error {
	name := c.Params("name")
	text, err := s.deps.Exporter.TranscriptText(name)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name+".transcript.txt"))
	return c.SendString(text)
}

func (s *Server) sessionReport(c *fiber.Ctx) error {
	buf, err := s.deps.Exporter.SessionReportXLSX()
	if err != nil {
		return err
	}
	filename := fmt.Sprintf("session-report-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf)
}
