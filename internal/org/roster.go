package org

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/gender"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/name"
)

// Load reads an Organisation from a roster file, dispatching on the file
// extension: .csv is read as a CSV table, anything else as YAML.
func Load(path string) (*Organisation, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return LoadCSV(path)
	}
	return LoadRoster(path)
}

// RosterEntry is one member in a YAML roster file.
type RosterEntry struct {
	Name   string `yaml:"name"`
	Title  string `yaml:"title,omitempty"`
	Gender string `yaml:"gender,omitempty"`
	ORCID  string `yaml:"orcid,omitempty"`
}

// rosterFile is the on-disk roster layout.
type rosterFile struct {
	Members []RosterEntry `yaml:"members"`
}

// LoadRoster reads an Organisation from a YAML roster file.
func LoadRoster(path string) (*Organisation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}

	var rf rosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	if len(rf.Members) == 0 {
		return nil, fmt.Errorf("%w: roster has no members", ErrInvalidInput)
	}

	o := &Organisation{Names: make([]*name.Name, 0, len(rf.Members))}
	for i, entry := range rf.Members {
		n, err := name.New(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("roster member %d: %w", i, err)
		}
		n.Title = entry.Title
		n.Gender = gender.Verdict(entry.Gender)
		n.ORCID = entry.ORCID
		o.Names = append(o.Names, n)
	}
	return o, nil
}

// SaveRoster writes the Organisation back to a YAML roster file.
func (o *Organisation) SaveRoster(path string) error {
	rf := rosterFile{Members: make([]RosterEntry, 0, len(o.Names))}
	for _, n := range o.Names {
		rf.Members = append(rf.Members, RosterEntry{
			Name:   n.Full,
			Title:  n.Title,
			Gender: string(n.Gender),
			ORCID:  n.ORCID,
		})
	}

	data, err := yaml.Marshal(rf)
	if err != nil {
		return fmt.Errorf("encoding roster: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing roster: %w", err)
	}
	return nil
}
