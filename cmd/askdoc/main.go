package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/kehinde-ajayi/docchat/internal/common"
	"github.com/kehinde-ajayi/docchat/internal/extract"
	"github.com/kehinde-ajayi/docchat/internal/llm/gemini"
	"github.com/kehinde-ajayi/docchat/internal/session"
)

var (
	youLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	aiLabel   = color.New(color.FgGreen, color.Bold).SprintFunc()
	faint     = color.New(color.Faint).SprintFunc()
	errorText = color.New(color.FgRed).SprintFunc()
)

const helpText = `commands:
  :load <path>   extract a PDF/image and start chatting with it
  :list          show loaded documents
  :use <name>    switch the active document
  :clear         clear the active document's transcript
  :quit          exit`

// askdoc is a terminal chat client: load a document, ask questions about it.
func main() {
	cfg := common.LoadConfig()
	if cfg.Gemini.APIKey == "" {
		fmt.Fprintln(os.Stderr, errorText("GEMINI_API_KEY is required"))
		os.Exit(2)
	}

	logger := zap.NewNop()

	extractor := extract.NewCachingExtractor(
		extract.NewExtractor(extract.Config{
			Pdftotext:     cfg.Extract.Pdftotext,
			Pdftoppm:      cfg.Extract.Pdftoppm,
			Tesseract:     cfg.Extract.Tesseract,
			TesseractLang: cfg.Extract.TesseractLang,
			TessdataDir:   cfg.Extract.TessdataDir,
			DPI:           cfg.Extract.DPI,
			MaxPages:      cfg.Extract.MaxPages,
		}, logger),
		cfg.Extract.CacheTTL,
		logger,
	)

	responder := gemini.NewClient(gemini.Config{
		APIKey:    cfg.Gemini.APIKey,
		BaseURL:   cfg.Gemini.BaseURL,
		Model:     cfg.Gemini.Model,
		Timeout:   cfg.Gemini.Timeout,
		Grounding: cfg.Gemini.Grounding,
	}, logger)

	store := session.NewStore(logger)
	dispatcher := session.NewDispatcher(store, responder, logger)

	// Documents named on the command line are loaded up front.
	for _, path := range os.Args[1:] {
		if err := loadDocument(cfg, store, extractor, path); err != nil {
			fmt.Fprintln(os.Stderr, errorText(err.Error()))
		}
	}

	fmt.Println(faint("askdoc — chat with your documents. Type :help for commands."))
	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Printf("%s ", youLabel("You:"))
		if !in.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if quit := runCommand(cfg, store, extractor, responder, line); quit {
				return
			}
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Gemini.Timeout+5*time.Second)
		turn, err := dispatcher.Ask(ctx, store.ActiveName(), line)
		cancel()
		if err != nil {
			fmt.Fprintln(os.Stderr, errorText(err.Error()))
			continue
		}
		fmt.Printf("%s %s\n", aiLabel("Gemini:"), turn.Message)
	}
}

func runCommand(cfg *common.Config, store *session.Store, extractor extract.TextExtractor, responder *gemini.Client, line string) (quit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Println(helpText)
	case ":load":
		if len(fields) != 2 {
			fmt.Println(faint("usage: :load <path>"))
			return false
		}
		if err := loadDocument(cfg, store, extractor, fields[1]); err != nil {
			fmt.Fprintln(os.Stderr, errorText(err.Error()))
		}
	case ":list":
		active := store.ActiveName()
		for _, d := range store.List() {
			marker := "  "
			if d.Name == active {
				marker = "* "
			}
			fmt.Printf("%s%s  %s  %d chars, %d turns\n",
				marker, d.Name, faint(d.Kind), len(d.Text), store.TurnCount(d.Name))
		}
	case ":use":
		if len(fields) != 2 {
			fmt.Println(faint("usage: :use <name>"))
			return false
		}
		if err := store.SetActive(fields[1]); err != nil {
			fmt.Fprintln(os.Stderr, errorText(err.Error()))
		}
	case ":clear":
		name := store.ActiveName()
		if name == "" {
			fmt.Fprintln(os.Stderr, errorText("no active document"))
			return false
		}
		if err := store.ClearTranscript(name); err != nil {
			fmt.Fprintln(os.Stderr, errorText(err.Error()))
			return false
		}
		responder.Forget(name)
		fmt.Println(faint("transcript cleared"))
	default:
		fmt.Println(faint("unknown command; type :help"))
	}
	return false
}

func loadDocument(cfg *common.Config, store *session.Store, extractor extract.TextExtractor, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Extract.Timeout)
	defer cancel()

	fmt.Println(faint("extracting " + path + " ..."))
	res, err := extractor.Extract(ctx, path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	name := filepath.Base(path)
	store.AddDocument(session.Document{
		Name:       name,
		Text:       res.Text,
		Kind:       res.SourceType,
		Path:       path,
		UploadedAt: time.Now().UTC(),
	})
	fmt.Printf("%s\n", faint(fmt.Sprintf("loaded %s (%s, %d chars) — now active", name, res.Method, len(res.Text))))
	return nil
}
