package migrate

import (
	"fmt"
	"io/fs"
	"maps"
	"regexp"
	"slices"
	"sort"
	"strconv"
)

// Provider provides a list of migrations
type Provider interface {
	// Migrations provides a list of migrations sorted by version in ascending order
	Migrations() []*Migration
}

// FSProvider loads migrations from files named NNNNNNNNNN_description.up.sql
// and NNNNNNNNNN_description.down.sql.
type FSProvider struct {
	fsys       fs.FS
	migrations []*Migration
}

// NewFSProvider scans fsys for migration files. Every version must have both an
// up and a down file.
func NewFSProvider(fsys fs.FS) (*FSProvider, error) {
	p := &FSProvider{fsys: fsys}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

// Migrations returns the loaded migrations sorted by version in ascending order.
func (p *FSProvider) Migrations() []*Migration {
	return p.migrations
}

func (p *FSProvider) load() error {
	migrations := make(map[int]*Migration)
	seen := make(map[int]map[string]bool)

	err := fs.WalkDir(p.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		file, err := ParseFileName(d.Name())
		if err != nil {
			// not a migration file
			return nil
		}
		m, ok := migrations[file.Version]
		if !ok {
			m = &Migration{
				Version:     file.Version,
				Description: file.Name,
				Up:          NoopMigrationFunc,
				Down:        NoopMigrationFunc,
			}
			migrations[file.Version] = m
			seen[file.Version] = make(map[string]bool)
		}
		switch file.Direction {
		case "up":
			m.Up = MigrationFuncFromSQLFilename(path, p.fsys)
		case "down":
			m.Down = MigrationFuncFromSQLFilename(path, p.fsys)
		}
		seen[file.Version][file.Direction] = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan migrations directory: %w", err)
	}

	var incomplete []int
	for version, dirs := range seen {
		if !dirs["up"] || !dirs["down"] {
			incomplete = append(incomplete, version)
		}
	}
	if len(incomplete) > 0 {
		sort.Ints(incomplete)
		return fmt.Errorf("incomplete migrations found (missing up or down files): %v", incomplete)
	}

	p.migrations = slices.Collect(maps.Values(migrations))
	sortMigrations(p.migrations)
	return nil
}

// File is a parsed migration file name.
type File struct {
	Version   int
	Name      string
	Direction string
}

var fileNameRe = regexp.MustCompile(`^(\d+)_([A-Za-z0-9_\-]+)\.(up|down)\.sql$`)

// ParseFileName parses NNNNNNNNNN_description.(up|down).sql.
func ParseFileName(name string) (File, error) {
	m := fileNameRe.FindStringSubmatch(name)
	if m == nil {
		return File{}, fmt.Errorf("invalid migration file name: %s", name)
	}
	version, err := strconv.Atoi(m[1])
	if err != nil {
		return File{}, fmt.Errorf("invalid migration version in %s: %w", name, err)
	}
	return File{Version: version, Name: m[2], Direction: m[3]}, nil
}

func sortMigrations(migrations []*Migration) {
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
}
