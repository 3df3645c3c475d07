package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/plus3/ecstoys/config"
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/food"
	"github.com/plus3/ecstoys/render"
	"github.com/stretchr/testify/assert"
)

func TestHeadlessWorldFillsToCap(t *testing.T) {
	settings := config.Default()
	settings.Food.Cap = 5
	w := newWorld(&settings, slog.New(slog.NewTextHandler(io.Discard, nil)), worldOptions{})

	for range 20 {
		w.update.Once(0.1)
	}

	foods := ecs.NewQuery[struct {
		*food.Food
		*render.Sprite
	}](w.storage)
	foods.Execute()
	assert.Equal(t, 5, foods.Len())

	creatures := ecs.NewQuery[struct{ *food.Creature }](w.storage)
	creatures.Execute()
	assert.Equal(t, 1, creatures.Len())
}
