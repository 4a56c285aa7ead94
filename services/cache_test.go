package services

import (
	"html"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodshare-api/models"
)

func TestPostCache(t *testing.T) {
	cache, err := NewPostCache(2, time.Minute)
	require.NoError(t, err)

	posts := []models.Post{{ID: "p1", Title: "Bread"}}
	cache.Set("all", posts)
	posts[0].Title = "changed"

	got, ok := cache.Get("all")
	require.True(t, ok)
	assert.Equal(t, "Bread", got[0].Title)

	got[0].Title = "mutated"
	again, _ := cache.Get("all")
	assert.Equal(t, "Bread", again[0].Title)

	cache.Set("b", nil)
	cache.Set("c", nil)
	_, ok = cache.Get("all")
	assert.False(t, ok, "oldest entry should be evicted")

	cache.Invalidate()
	assert.Zero(t, cache.Len())
}

func TestPostCacheDisabled(t *testing.T) {
	var nilCache *PostCache
	nilCache.Set("k", []models.Post{{ID: "p1"}})
	_, ok := nilCache.Get("k")
	assert.False(t, ok)
	nilCache.Invalidate()

	cache, err := NewPostCache(4, 0)
	require.NoError(t, err)
	cache.Set("k", []models.Post{{ID: "p1"}})
	assert.Zero(t, cache.Len())
}

func TestSanitizerText(t *testing.T) {
	s := NewSanitizer()
	tests := map[string]string{
		"  plain text  ":                          "plain text",
		"<b>bold</b> & <i>italic</i>":             "bold & italic",
		`<img src=x onerror="alert(1)">Apple`:     "Apple",
		"<script>alert('x')</script>":             "",
		"Tom's \"best\" pie":                      "Tom's \"best\" pie",
		"5 < 6 & 7 > 3":                           "5 < 6 & 7 > 3",
		"Tom &amp; Jerry":                         "Tom & Jerry",
		"&lt;script&gt;alert(1)&lt;/script&gt;":   "",
		"&lt;img src=x onerror=alert(1)&gt;":      "",
		"&amp;lt;b&amp;gt;Soup&amp;lt;/b&amp;gt;": "Soup",
	}
	for input, want := range tests {
		assert.Equal(t, want, s.Text(input), input)
	}

	deep := "<b>x</b>"
	for i := 0; i < 6; i++ {
		deep = html.EscapeString(deep)
	}
	assert.NotContains(t, s.Text(deep), "<")
}

func TestCalculateDistance(t *testing.T) {
	assert.Equal(t, 0.0, calculateDistance(40.4168, -3.7038, 40.4168, -3.7038))
	d := calculateDistance(40.4168, -3.7038, 41.3874, 2.1686)
	assert.InDelta(t, 505, d, 5)
}
