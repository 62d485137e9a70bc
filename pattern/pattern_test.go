package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchLiterals(t *testing.T) {
	cases := []struct {
		pattern, address string
		want             bool
	}{
		{"/foo", "/foo", true},
		{"/foo", "/bar", false},
		{"/foo", "/foo/bar", false},
		{"/foo/bar", "/foo", false},
		{"", "", true},
		{"", "x", false},
	}
	for _, c := range cases {
		if got := Match(c.pattern, c.address); got != c.want {
			t.Errorf("Match(%q, %q) = %v, want %v", c.pattern, c.address, got, c.want)
		}
	}
}

func TestMatchWildcards(t *testing.T) {
	cases := []struct {
		pattern, address string
		want             bool
	}{
		{"/?oo", "/foo", true},
		{"/?oo", "/ffoo", false},
		{"/?oo", "/oo", false},
		{"/*", "/anything/at/all", true},
		{"/*", "/", true},
		{"*", "", true},
		{"/foo*", "/foo", true},
		{"/foo*bar", "/foobar", true},
		{"/foo*bar", "/foo12345bar", true},
		{"/foo*bar", "/foobarbar", true},
		{"/foo*bar", "/foo", false},
		{"/**", "/x/y/z", true},
		{"/a*b*c", "/axxbyyc", true},
		{"/a*b*c", "/abc", true},
		{"/a*b*c", "/ac", false},
	}
	for _, c := range cases {
		if got := Match(c.pattern, c.address); got != c.want {
			t.Errorf("Match(%q, %q) = %v, want %v", c.pattern, c.address, got, c.want)
		}
	}
}

func TestMatchCharClass(t *testing.T) {
	cases := []struct {
		pattern, address string
		want             bool
	}{
		{"/[abc]", "/a", true},
		{"/[abc]", "/b", true},
		{"/[abc]", "/d", false},
		{"/[!abc]", "/d", true},
		{"/[!abc]", "/a", false},
		{"/[a-e]", "/c", true},
		{"/[a-e]", "/e", true}, // upper bound of a range is inclusive
		{"/[a-e]", "/f", false},
		{"/[b-a]", "/a", true}, // reversed range degenerates to its endpoints
		{"/[b-a]", "/b", true},
		{"/[b-a]", "/c", false},
		{"/foo[12]", "/foo1", true},
		{"/foo[12]", "/foo3", false},
	}
	for _, c := range cases {
		if got := Match(c.pattern, c.address); got != c.want {
			t.Errorf("Match(%q, %q) = %v, want %v", c.pattern, c.address, got, c.want)
		}
	}
}

func TestMatchCharClassMalformed(t *testing.T) {
	// Unterminated or empty classes fail closed rather than erroring.
	assert.False(t, Match("/[abc", "/a"))
	assert.False(t, Match("/[]", "/a"))
}

func TestMatchAlternation(t *testing.T) {
	cases := []struct {
		pattern, address string
		want             bool
	}{
		{"/{foo,bar}", "/foo", true},
		{"/{foo,bar}", "/bar", true},
		{"/{foo,bar}", "/baz", false},
		{"/a{foo,bar}b", "/afoob", true},
		{"/a{foo,bar}b", "/abarb", true},
		{"/a{foo,bar}b", "/abazb", false},
		{"/{foo,bar}/*", "/foo/anything", true},
		{"/{,foo}", "/", true},  // empty alternative
		{"/{,foo}", "/foo", true},
	}
	for _, c := range cases {
		if got := Match(c.pattern, c.address); got != c.want {
			t.Errorf("Match(%q, %q) = %v, want %v", c.pattern, c.address, got, c.want)
		}
	}
}

func TestMatchUnterminatedAlternation(t *testing.T) {
	assert.False(t, Match("/{foo,bar", "/foo"))
}

// Worked examples of "*", "[...]" and "{...}" in the segment after a literal
// prefix.
func TestMatchDesignScenarios(t *testing.T) {
	assert.True(t, Match("/foo/*", "/foo/bar"))
	assert.True(t, Match("/foo/[0-9]", "/foo/5"))
	assert.False(t, Match("/foo/[0-9]", "/foo/x"))
	assert.True(t, Match("/foo/{bar,baz}", "/foo/baz"))
	assert.False(t, Match("/foo/{bar,baz}", "/foo/qux"))
}
