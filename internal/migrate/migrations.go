// Package migrate upgrades stored checklist documents to the current schema
// generation. Each step is written against the version directly below it.
package migrate

import (
	"encoding/json"
	"fmt"
	"sort"

	"checkline/internal/domain"
)

type Migration struct {
	Version int
	Name    string
	Up      func(doc []byte) ([]byte, error)
}

var migrations = []Migration{
	{Version: 2, Name: "002_single_business", Up: upgradeSingleBusiness},
}

func loadMigrations() []Migration {
	out := make([]Migration, len(migrations))
	copy(out, migrations)
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

// Version reads the schema marker of a raw document. An absent marker is version 1.
func Version(doc []byte) (int, error) {
	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(doc, &head); err != nil {
		return 0, fmt.Errorf("read document version: %w", err)
	}
	if head.Version == nil || *head.Version == 0 {
		return 1, nil
	}
	return *head.Version, nil
}

// Migrate applies pending upgrades in order and returns the current-version
// document together with the version it started from.
func Migrate(doc []byte) ([]byte, int, error) {
	from, err := Version(doc)
	if err != nil {
		return nil, 0, err
	}
	if from > domain.CurrentVersion {
		return nil, from, fmt.Errorf("document version %d is newer than supported version %d", from, domain.CurrentVersion)
	}
	current := from
	for _, m := range loadMigrations() {
		if m.Version <= current {
			continue
		}
		doc, err = m.Up(doc)
		if err != nil {
			return nil, from, fmt.Errorf("migration %s: %w", m.Name, err)
		}
		current = m.Version
	}
	return doc, from, nil
}
