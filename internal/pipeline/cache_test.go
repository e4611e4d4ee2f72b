package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sgspencer2618/TariffPilot/internal/model"
)

func TestResultCache_SetGet(t *testing.T) {
	c := newResultCache(time.Minute)
	defer c.Close()

	result := model.ClassificationResult{Decision: model.DecisionSuggest}
	c.set("aluminum window frame", result)

	got, ok := c.get("aluminum window frame")
	assert.True(t, ok)
	assert.Equal(t, result, got)

	_, ok = c.get("ss bolt")
	assert.False(t, ok)
}

func TestResultCache_Expiry(t *testing.T) {
	c := newResultCache(10 * time.Millisecond)
	defer c.Close()

	c.set("widget", model.ClassificationResult{Decision: model.DecisionAutoAccept})
	time.Sleep(25 * time.Millisecond)

	_, ok := c.get("widget")
	assert.False(t, ok, "entry must expire after its TTL")
}

func TestResultCache_Overwrite(t *testing.T) {
	c := newResultCache(time.Minute)
	defer c.Close()

	c.set("widget", model.ClassificationResult{Decision: model.DecisionEscalate})
	c.set("widget", model.ClassificationResult{Decision: model.DecisionAutoAccept})

	got, ok := c.get("widget")
	assert.True(t, ok)
	assert.Equal(t, model.DecisionAutoAccept, got.Decision)
	assert.Equal(t, 1, c.size())
}

func TestResultCache_Clear(t *testing.T) {
	c := newResultCache(time.Minute)
	defer c.Close()

	c.set("a", model.ClassificationResult{})
	c.set("b", model.ClassificationResult{})
	assert.Equal(t, 2, c.size())

	c.clear()
	assert.Equal(t, 0, c.size())
}
