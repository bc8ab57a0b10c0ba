package words

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList_commas(t *testing.T) {
	list, err := ParseList(strings.NewReader("cat, dog,,  bird \nfish,\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "bird", "fish"}, list)
}

func TestParseList_lines(t *testing.T) {
	list, err := ParseList(strings.NewReader("apple\n\n  \nbanana\r\ncherry"))
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "banana", "cherry"}, list)
}

func TestParseList_empty(t *testing.T) {
	list, err := ParseList(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDir_load(t *testing.T) {
	fsys := fstest.MapFS{
		"easymode.txt": {Data: []byte("cat,dog\n")},
		"hardmode.txt": {Data: []byte("lighthouse\nsubmarine\n")},
	}
	d := NewDir(fsys)

	assert.Equal(t, []string{"cat", "dog"}, d.Load("easy"))
	assert.Equal(t, []string{"lighthouse", "submarine"}, d.Load("hard"))
}

func TestDir_missing(t *testing.T) {
	d := NewDir(fstest.MapFS{})
	assert.Empty(t, d.Load("easy"))
}

func TestDir_onDisk(t *testing.T) {
	d := OpenDir(t.TempDir())
	assert.Empty(t, d.Load("hard"))
}

func TestEmbedded(t *testing.T) {
	d := Embedded()
	assert.NotEmpty(t, d.Load("easy"))
	assert.NotEmpty(t, d.Load("hard"))
	assert.Empty(t, d.Load("impossible"))
}
