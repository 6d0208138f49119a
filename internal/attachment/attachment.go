// Package attachment stores uploaded receipt files on local disk.
package attachment

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"github.com/wedding-ledger/backend/internal/types"
	"golang.org/x/exp/slices"
	"golang.org/x/text/unicode/norm"
)

// DefaultAllowed is the default allow-list of file name patterns.
var DefaultAllowed = []string{"*.png", "*.jpg", "*.jpeg", "*.pdf"}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Store is a directory of attachments.
type Store struct {
	Dir     string
	Allowed []string
}

// New creates the store directory if it does not exist.
func New(dir string, allowed []string) (Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return Store{}, fmt.Errorf("could not create attachment directory: %w", err)
	}

	if len(allowed) == 0 {
		allowed = DefaultAllowed
	}

	return Store{Dir: dir, Allowed: allowed}, nil
}

// Allows reports if the file name matches one of the allowed patterns.
// Matching ignores case.
func (s Store) Allows(name string) bool {
	name = strings.ToLower(name)
	return slices.ContainsFunc(s.Allowed, func(pattern string) bool {
		return glob.Glob(strings.ToLower(pattern), name)
	})
}

// Save validates and sanitizes the name, picks a free file name and writes
// the content. It returns the name the file was stored under.
func (s Store) Save(name string, content io.Reader) (string, error) {
	if !s.Allows(name) {
		return "", &types.ValidationError{Field: "attachment", Reason: fmt.Sprintf("file type of %q is not allowed", name)}
	}

	candidate := Sanitize(name)
	if candidate == "" || !s.Allows(candidate) {
		return "", &types.ValidationError{Field: "attachment", Reason: fmt.Sprintf("%q is not a usable file name", name)}
	}

	// Names that could not be created count as taken
	failed := map[string]bool{}
	taken := func(name string) bool {
		return failed[name] || s.Exists(name)
	}

	for {
		final := UniqueName(taken, candidate)

		f, err := os.OpenFile(s.Path(final), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
		if errors.Is(err, fs.ErrExist) {
			failed[final] = true
			continue
		}
		if err != nil {
			return "", fmt.Errorf("could not store attachment: %w", err)
		}

		_, err = io.Copy(f, content)
		if cerr := f.Close(); err == nil {
			err = cerr
		}

		if err != nil {
			if rerr := os.Remove(s.Path(final)); rerr != nil {
				log.Error().Err(rerr).Str("file", final).Msg("removing partial attachment")
			}
			return "", fmt.Errorf("could not store attachment: %w", err)
		}

		log.Debug().Str("file", final).Msg("attachment stored")
		return final, nil
	}
}

// Exists reports if a directory entry with the name is in the store.
// Symbolic links count even if their target is gone.
func (s Store) Exists(name string) bool {
	if name == "" || name != filepath.Base(name) {
		return false
	}

	_, err := os.Lstat(s.Path(name))
	return err == nil
}

// Path is the location of the named file on disk.
func (s Store) Path(name string) string {
	return filepath.Join(s.Dir, filepath.Base(name))
}

// Sanitize turns an uploaded file name into a safe, flat file name.
// Directories are removed, whitespace becomes an underscore, characters
// other than ASCII letters, digits, '_', '.' and '-' are dropped and the
// extension is lower-cased. The result can be empty.
func Sanitize(name string) string {
	name = norm.NFKD.String(name)
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + strings.ToLower(ext)
}

// UniqueName returns the candidate if it is not taken. Otherwise, it
// appends _1, _2, … to the base name until a free name is found.
func UniqueName(taken func(string) bool, candidate string) string {
	if !taken(candidate) {
		return candidate
	}

	ext := filepath.Ext(candidate)
	base := strings.TrimSuffix(candidate, ext)

	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_%d%s", base, i, ext)
		if !taken(name) {
			return name
		}
	}
}
