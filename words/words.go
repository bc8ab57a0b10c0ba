// Package words loads the candidate secret words for each play mode.
package words

import (
	"embed"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:embed data/*.txt
var builtin embed.FS

// FileName is the word list file for a mode, e.g. "easymode.txt".
func FileName(mode string) string {
	return mode + "mode.txt"
}

// Dir is a word source reading one list file per mode from a file system.
type Dir struct {
	fsys fs.FS
	log  zerolog.Logger
}

// NewDir reads lists from fsys.
func NewDir(fsys fs.FS) *Dir {
	return &Dir{
		fsys: fsys,
		log:  log.With().Str("words", "dir").Logger(),
	}
}

// OpenDir reads lists from a directory on disk.
func OpenDir(dir string) *Dir {
	return NewDir(os.DirFS(dir))
}

// Embedded serves the lists compiled into the program.
func Embedded() *Dir {
	sub, err := fs.Sub(builtin, "data")
	if err != nil {
		panic("bad embedded word lists: " + err.Error())
	}
	return NewDir(sub)
}

// Load returns every word for mode. A missing or unreadable list is not an
// error, it just has no words.
func (d *Dir) Load(mode string) []string {
	name := FileName(mode)

	f, err := d.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.log.Warn().Str("file", name).Msg("no word list")
		} else {
			d.log.Warn().Err(err).Str("file", name).Msg("cannot open word list")
		}
		return nil
	}
	defer f.Close()

	list, err := ParseList(f)
	if err != nil {
		d.log.Warn().Err(err).Str("file", name).Msg("cannot read word list")
		return nil
	}

	d.log.Debug().Str("file", name).Int("words", len(list)).Msg("loaded word list")
	return list
}

// ParseList reads comma separated words, any number per line, and flattens
// them into one list. Blank entries are dropped.
func ParseList(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var out []string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, token := range row {
			token = strings.TrimSpace(token)
			if token != "" {
				out = append(out, token)
			}
		}
	}

	return out, nil
}
