package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkshopSlug(t *testing.T) {
	id := "a1b2c3d4-0000-0000-0000-000000000000"

	assert.Equal(t, "intro-to-go-a1b2c3d4", workshopSlug("Intro to Go", id))
	assert.Equal(t, "advanced-concurrency-a1b2c3d4", workshopSlug("Advanced  Concurrency!", id))
}

func TestWorkshopSlug_SameTitleDifferentIDs(t *testing.T) {
	a := workshopSlug("Intro to Go", "a1b2c3d4-0000-0000-0000-000000000000")
	b := workshopSlug("Intro to Go", "e5f6a7b8-0000-0000-0000-000000000000")

	assert.NotEqual(t, a, b)
}
