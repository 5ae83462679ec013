package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandString(t *testing.T) {
	s := RandString(5)
	assert.Len(t, s, 5)
	for _, c := range s {
		assert.True(t, strings.ContainsRune(upperAlnum, c), "unexpected char %q", c)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Mechanical Keyboard":     "mechanical-keyboard",
		"  Wireless  Mouse  ":     "wireless-mouse",
		"USB-C Hub (7-in-1)!":     "usb-c-hub-7-in-1",
		"Ceci n'est pas une pipe": "ceci-nest-pas-une-pipe",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestPaginationClamping(t *testing.T) {
	p := NewPagination(0, 0, 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 12, p.PageSize)

	p = NewPagination(2, 1000, 100)
	assert.Equal(t, 100, p.PageSize)

	p = NewPagination(3, 10, 25)
	assert.Equal(t, int64(3), p.Pages)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 10, p.Limit())
}
