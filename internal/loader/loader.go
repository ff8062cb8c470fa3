package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/petroval/wellecon/pkg/core/cache"
	"github.com/petroval/wellecon/pkg/core/logging"
)

// ErrTableNotFound is returned when a table file does not exist
var ErrTableNotFound = errors.New("table not found")

// Loader reads <dir>/<table>.csv files and cleans them through the registry.
// Cleaned frames are cached until the file changes; callers must not modify
// a returned frame.
type Loader struct {
	dir      string
	registry *Registry
	logger   *logging.Logger
	frames   *cache.Cache[*Frame]
}

// New creates a loader for dir. A nil logger discards output.
func New(dir string, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Loader{
		dir:      dir,
		registry: NewRegistry(),
		logger:   logger,
		frames:   cache.New[*Frame](cache.DefaultConfig()),
	}
}

// Registry returns the table registry
func (l *Loader) Registry() *Registry {
	return l.registry
}

// Path returns the file path of table
func (l *Loader) Path(table Table) string {
	return filepath.Join(l.dir, string(table)+".csv")
}

// Load reads and cleans one table
func (l *Loader) Load(table Table) (*Frame, error) {
	path := l.Path(table)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	key := fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())
	return l.frames.GetOrSet(key, func() (*Frame, error) {
		return l.read(table, path)
	})
}

func (l *Loader) read(table Table, path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	frame, err := ReadCSV(file, table)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("cleaning table", "table", string(table), "rows", frame.Len())
	if err := l.registry.Clean(frame); err != nil {
		return nil, err
	}
	return frame, nil
}

// LoadAll loads every table in tables, stopping at the first failure
func (l *Loader) LoadAll(tables ...Table) (map[Table]*Frame, error) {
	out := make(map[Table]*Frame, len(tables))
	for _, t := range tables {
		f, err := l.Load(t)
		if err != nil {
			return nil, err
		}
		out[t] = f
	}
	return out, nil
}
