package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetParams(t *testing.T) {
	cases := []struct {
		query  string
		page   int
		limit  int
		offset int
	}{
		{"", 1, DefaultLimit, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=0&limit=-5", 1, DefaultLimit, 0},
		{"?limit=1000", 1, MaxLimit, 0},
		{"?page=x", 1, DefaultLimit, 0},
	}
	for _, tc := range cases {
		var got *Params
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			got = GetParams(c)
			return nil
		})
		_, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.page, got.Page, tc.query)
		assert.Equal(t, tc.limit, got.Limit, tc.query)
		assert.Equal(t, tc.offset, got.Offset, tc.query)
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	res := Slice(items, &Params{Page: 2, Limit: 2, Offset: 2})
	assert.Equal(t, []int{3, 4}, res.Items)
	assert.Equal(t, int64(5), res.Meta.Total)
	assert.Equal(t, 3, res.Meta.TotalPages)
	assert.True(t, res.Meta.HasNext)
	assert.True(t, res.Meta.HasPrev)

	res = Slice(items, &Params{Page: 9, Limit: 2, Offset: 16})
	assert.Equal(t, []int{}, res.Items)
	assert.False(t, res.Meta.HasNext)
}
