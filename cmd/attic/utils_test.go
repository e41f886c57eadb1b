package attic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestPickPrecedence(t *testing.T) {
	assert.Equal(t, "cli", pickString("cli", strp("local"), strp("global")))
	assert.Equal(t, "local", pickString("", strp("local"), strp("global")))
	assert.Equal(t, "global", pickString("", nil, strp("global")))
	assert.Equal(t, "", pickString("", strp(""), nil))

	assert.Equal(t, 7, pickInt(7, intp(3), nil))
	assert.Equal(t, 3, pickInt(0, intp(3), intp(9)))
	assert.Equal(t, 9, pickInt(0, nil, intp(9)))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"src", "data"}, splitList("src,data"))
	assert.Equal(t, []string{"src", "data"}, splitList(" src , data ,"))
	assert.Nil(t, splitList(""))
}

func TestResolveSize(t *testing.T) {
	var v int64 = 42
	assert.NoError(t, resolveSize(&v, "", nil, nil))
	assert.EqualValues(t, 42, v, "unset inputs leave the default alone")

	assert.NoError(t, resolveSize(&v, "100MiB", nil, nil))
	assert.EqualValues(t, 100<<20, v)

	assert.NoError(t, resolveSize(&v, "", strp("1GiB"), nil))
	assert.EqualValues(t, 1<<30, v)

	assert.Error(t, resolveSize(&v, "lots", nil, nil))
}
