package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kehinde-ajayi/docchat/internal/common"
	"github.com/kehinde-ajayi/docchat/internal/llm"
)

type chatPart struct {
	Text string `json:"text"`
}

type chatContent struct {
	Parts []chatPart `json:"parts"`
	Role  string     `json:"role"`
}

type chatRequest struct {
	Contents []chatContent `json:"contents"`
}

type chatCandidate struct {
	Content chatContent `json:"content"`
}

type chatResponse struct {
	Candidates []chatCandidate `json:"candidates"`
}

const (
	roleUser  = "user"
	roleModel = "model"
)

// Ask answers question grounded in docText, within the conversational context
// for docName. The context is created lazily on the first question. With
// GroundOnce the document text is sent only on the first turn and retained by
// replaying the conversation; with GroundAlways it is resent on every turn,
// so request size grows with transcript length.
func (c *Client) Ask(ctx context.Context, docName, docText, question string) (string, error) {
	start := time.Now()

	c.mu.Lock()
	hist := c.convs[docName]
	var userText string
	if c.cfg.Grounding == GroundAlways || len(hist) == 0 {
		userText = groundingPrompt(docText) + "\n\n" + question
	} else {
		userText = question
	}
	contents := make([]chatContent, 0, len(hist)+1)
	contents = append(contents, hist...)
	contents = append(contents, chatContent{
		Parts: []chatPart{{Text: userText}},
		Role:  roleUser,
	})
	c.mu.Unlock()

	c.log.Info("gemini.ask.start",
		zap.String("document", docName),
		zap.String("model", c.cfg.Model),
		zap.String("grounding", c.cfg.Grounding),
		zap.Int("history_turns", len(hist)),
		zap.Int("text_len", len(docText)),
	)

	answer, err := c.generate(ctx, contents)
	if err != nil {
		c.log.Error("gemini.ask.failed",
			zap.String("document", docName),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
			zap.Error(err),
		)
		return "", err
	}

	c.mu.Lock()
	c.convs[docName] = append(contents, chatContent{
		Parts: []chatPart{{Text: answer}},
		Role:  roleModel,
	})
	c.mu.Unlock()

	c.log.Info("gemini.ask.ok",
		zap.String("document", docName),
		zap.Int("answer_len", len(answer)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return strings.TrimSpace(answer), nil
}

// Forget drops the conversational context for docName. Called when the
// document is removed so one document's grounding never leaks into another's
// answers.
func (c *Client) Forget(docName string) {
	c.mu.Lock()
	delete(c.convs, docName)
	c.mu.Unlock()
	c.log.Info("gemini.context.forgotten", zap.String("document", docName))
}

func (c *Client) generate(ctx context.Context, contents []chatContent) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)

	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, chatRequest{Contents: contents},
		map[string]string{"x-goog-api-key": c.cfg.APIKey}, c.log)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrResponderUnavailable, err)
	}

	var res chatResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", common.ErrResponderUnavailable, err)
	}
	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", common.ErrResponderUnavailable)
	}
	return res.Candidates[0].Content.Parts[0].Text, nil
}

func groundingPrompt(docText string) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant. Answer questions based on the following document.\n\n")
	b.WriteString("DOCUMENT:\n\"\"\"\n")
	b.WriteString(docText)
	b.WriteString("\n\"\"\"")
	return b.String()
}
