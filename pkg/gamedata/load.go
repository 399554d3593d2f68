package gamedata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Theme file names within a theme directory.
const (
	monstersFile = "monsters.json"
	attribsFile  = "attribs.json"
	petsFile     = "pets.json"
	namesFile    = "names.json"
)

// LoadTheme reads a theme's table files from dataDir/themes/<name> and
// validates the result. The files are independent, so they load
// concurrently.
func LoadTheme(dataDir, name string) (*Theme, error) {
	dir := filepath.Join(dataDir, "themes", name)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("theme %q not found: %w", name, err)
	}

	t := &Theme{Name: name}

	var g errgroup.Group
	g.Go(func() error {
		return readTable(filepath.Join(dir, monstersFile), &t.Monsters)
	})
	g.Go(func() error {
		return readTable(filepath.Join(dir, attribsFile), &t.Attributes)
	})
	g.Go(func() error {
		// Pets are optional; a theme without them just has no catchable
		// companions.
		err := readTable(filepath.Join(dir, petsFile), &t.Pets)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return readTable(filepath.Join(dir, namesFile), &t.Names)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load theme %q: %w", name, err)
	}

	for key, m := range t.Monsters {
		if m.Name == "" {
			m.Name = key
			t.Monsters[key] = m
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// readTable unmarshals one JSON table file into out.
func readTable(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filepath.Base(path), err)
	}
	return nil
}
