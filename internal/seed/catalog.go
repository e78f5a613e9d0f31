// Package seed loads a starter catalog of genres, books and tutorials from
// a YAML file.
//
// A catalog file looks like:
//
//	genres:
//	  - Fantasy
//	  - Science Fiction
//	books:
//	  - title: Dune
//	    author: Frank Herbert
//	    genre: Science Fiction
//	    total_pages: 412
//	tutorials:
//	  - title: Tracking your reading
//	    url: https://youtu.be/dQw4w9WgXcQ
//	    category: Basics
//
// Loading is idempotent: genres are matched by name, books by title and
// author, and tutorials by URL. Existing rows are left untouched.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Genres    []string        `yaml:"genres"`
	Books     []BookEntry     `yaml:"books"`
	Tutorials []TutorialEntry `yaml:"tutorials"`
}

type BookEntry struct {
	Title         string `yaml:"title"`
	Author        string `yaml:"author"`
	Genre         string `yaml:"genre,omitempty"`
	Description   string `yaml:"description,omitempty"`
	Cover         string `yaml:"cover,omitempty"`
	TotalPages    int    `yaml:"total_pages,omitempty"`
	PublishedYear int    `yaml:"published_year,omitempty"`
}

type TutorialEntry struct {
	Title    string `yaml:"title"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

// Parse decodes a catalog. Unknown keys are rejected so typos surface early.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &c, nil
}

func ParseFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
