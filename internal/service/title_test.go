package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"glimpse/internal/llm"
	"glimpse/internal/model"
)

func TestDeriveTitle(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)

	tests := []struct {
		name       string
		text       string
		imageCount int
		want       string
	}{
		{
			name: "collapses whitespace",
			text: "  Hello   world  ",
			want: "Hello world",
		},
		{
			name: "truncates long text with ellipsis",
			text: strings.Repeat("a", 40),
			want: strings.Repeat("a", 30) + "…",
		},
		{
			name: "exactly at the limit is untouched",
			text: strings.Repeat("b", 30),
			want: strings.Repeat("b", 30),
		},
		{
			name:       "image count label without text",
			imageCount: 3,
			want:       "3 images",
		},
		{
			name:       "single image label",
			imageCount: 1,
			want:       "1 image",
		},
		{
			name: "timestamp fallback",
			want: "Chat 2025-03-14 09:26",
		},
		{
			name:       "text wins over images",
			text:       "a cat photo",
			imageCount: 2,
			want:       "a cat photo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveTitle(tt.text, tt.imageCount, now))
		})
	}
}

func TestModalitiesFor(t *testing.T) {
	t.Run("text only history", func(t *testing.T) {
		history := []model.Message{
			{Role: model.RoleUser, Parts: []model.Part{model.TextPart("hi")}},
		}
		assert.Equal(t, []string{llm.ModalityText}, modalitiesFor(history))
	})

	t.Run("latest user message carries an image", func(t *testing.T) {
		history := []model.Message{
			{Role: model.RoleUser, Parts: []model.Part{
				model.TextPart("what is this"),
				model.ImagePart("image/png", []byte{1, 2, 3}),
			}},
		}
		assert.Equal(t, []string{llm.ModalityImage, llm.ModalityText}, modalitiesFor(history))
	})

	t.Run("only the latest user message counts", func(t *testing.T) {
		history := []model.Message{
			{Role: model.RoleUser, Parts: []model.Part{model.ImagePart("image/png", []byte{1})}},
			{Role: model.RoleModel, Parts: []model.Part{model.TextPart("a bird")}},
			{Role: model.RoleUser, Parts: []model.Part{model.TextPart("thanks")}},
		}
		assert.Equal(t, []string{llm.ModalityText}, modalitiesFor(history))
	})

	t.Run("empty history", func(t *testing.T) {
		assert.Equal(t, []string{llm.ModalityText}, modalitiesFor(nil))
	})
}
