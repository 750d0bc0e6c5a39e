package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Output(t *testing.T) {
	ctx := context.Background()

	t.Run("keyboard rows are numbered", func(t *testing.T) {
		var out bytes.Buffer
		h := runner.NewTextHandler(strings.NewReader(""), &out)
		err := h.Output(ctx, []domain.Action{
			{Type: domain.ActionSendPhoto, Text: "Bounty", Photo: "bounty.jpg", Keyboard: &domain.Keyboard{
				Kind:    domain.KeyboardInline,
				Buttons: []domain.Button{{Label: "Выбрать", Token: "a"}, {Label: "Назад", Token: "b"}, {Label: "Далее", Token: "c"}},
				Layout:  []int{2},
			}},
		})
		require.NoError(t, err)
		assert.Equal(t, "[photo: bounty.jpg]\nBounty\n  [1] Выбрать   [2] Назад\n  [3] Далее\n", out.String())
	})

	t.Run("renderer", func(t *testing.T) {
		var out bytes.Buffer
		h := runner.NewTextHandler(strings.NewReader(""), &out,
			runner.WithTextHandlerRenderer(func(s string) (string, error) { return strings.ToUpper(s), nil }))
		require.NoError(t, h.Output(ctx, []domain.Action{domain.SendText("готово")}))
		assert.Equal(t, "ГОТОВО\n", out.String())
	})

	t.Run("document announced", func(t *testing.T) {
		var out bytes.Buffer
		h := runner.NewTextHandler(strings.NewReader(""), &out)
		doc := &domain.Document{Name: "аренда.pdf", Bytes: []byte("%PDF-1.3")}
		require.NoError(t, h.Output(ctx, []domain.Action{{Type: domain.ActionSendDocument, Document: doc}}))
		assert.Equal(t, "[document: аренда.pdf, 8 bytes]\n", out.String())
	})

	t.Run("document saved", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		var out bytes.Buffer
		h := runner.NewTextHandler(strings.NewReader(""), &out, runner.WithOutputDir(dir))
		doc := &domain.Document{Name: "аренда.pdf", Bytes: []byte("%PDF-1.3")}
		require.NoError(t, h.Output(ctx, []domain.Action{{Type: domain.ActionSendDocument, Document: doc}}))

		data, err := os.ReadFile(filepath.Join(dir, "аренда.pdf"))
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.3", string(data))
	})
}

func TestTextHandler_Input(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	oversized := strings.Repeat("x", runner.DefaultMaxInputSize+1)
	h := runner.NewTextHandler(strings.NewReader(oversized+"\n  ok\x07 \n"), &out)
	assert.False(t, h.Interactive())

	line, err := h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", line)
	assert.Contains(t, out.String(), "input exceeds maximum allowed size")

	_, err = h.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONHandler(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	h := runner.NewJSONHandler(strings.NewReader("\"Иван\"\nplain\n"), &out)

	line, err := h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Иван", line)

	line, err = h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, "plain", line)

	_, err = h.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, h.Output(ctx, nil))
	require.NoError(t, h.Output(ctx, []domain.Action{domain.SendText("привет")}))
	require.NoError(t, h.SystemOutput(ctx, "bye"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var actions []domain.Action
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &actions))
	assert.Equal(t, []domain.Action{domain.SendText("привет")}, actions)
	assert.JSONEq(t, `{"system":"bye"}`, lines[1])
}
