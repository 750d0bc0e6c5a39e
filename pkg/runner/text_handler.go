package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/charter/pkg/domain"
	"golang.org/x/term"
)

// ContentRenderer transforms message text before it is printed
// (e.g. markdown to ANSI) without coupling this package to a terminal library.
type ContentRenderer func(string) (string, error)

// TextHandler implements the interactive console interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	// OutputDir receives rendered documents. Empty means documents are only announced.
	OutputDir string

	interactive bool

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithOutputDir saves received documents into dir.
func WithOutputDir(dir string) TextHandlerOption {
	return func(h *TextHandler) {
		h.OutputDir = dir
	}
}

// NewTextHandler creates a handler for console IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:      bufio.NewReader(r),
		Writer:      w,
		interactive: isTerminal(r),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Interactive reports whether input comes from a terminal.
func (h *TextHandler) Interactive() bool {
	return h.interactive
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honor context cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Output prints each action. Keyboards are listed as numbered options.
func (h *TextHandler) Output(ctx context.Context, actions []domain.Action) error {
	for _, act := range actions {
		if act.Type == domain.ActionSendPhoto && act.Photo != "" {
			fmt.Fprintf(h.Writer, "[photo: %s]\n", act.Photo)
		}
		if act.Text != "" {
			fmt.Fprintln(h.Writer, strings.TrimSpace(h.render(act.Text)))
		}
		if act.Keyboard != nil && act.Type != domain.ActionRemoveKeyboard {
			h.printKeyboard(*act.Keyboard)
		}
		if act.Document != nil {
			if err := h.saveDocument(act.Document); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *TextHandler) render(text string) string {
	if h.Renderer == nil {
		return text
	}
	rendered, err := h.Renderer(text)
	if err != nil {
		return text
	}
	return rendered
}

func (h *TextHandler) printKeyboard(kb domain.Keyboard) {
	n := 0
	for _, row := range kb.Rows() {
		cells := make([]string, len(row))
		for i, b := range row {
			n++
			cells[i] = fmt.Sprintf("[%d] %s", n, b.Label)
		}
		fmt.Fprintln(h.Writer, "  "+strings.Join(cells, "   "))
	}
}

func (h *TextHandler) saveDocument(doc *domain.Document) error {
	if h.OutputDir == "" {
		fmt.Fprintf(h.Writer, "[document: %s, %d bytes]\n", doc.Name, len(doc.Bytes))
		return nil
	}
	if err := os.MkdirAll(h.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(h.OutputDir, doc.Name)
	if err := os.WriteFile(path, doc.Bytes, 0644); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	fmt.Fprintf(h.Writer, "[document saved: %s]\n", path)
	return nil
}

// Input reads one sanitized line. Lines rejected by SanitizeInput are
// reported and the user is asked again.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// SystemOutput prints a meta-message.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	fmt.Fprintf(h.Writer, "\n[system] %s\n", msg)
	return nil
}
