// Package library suggests reading material for the subjects a student
// is enrolled in.
package library

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mroth/weightedrand/v2"
)

//go:embed catalog.json
var catalogJSON []byte

// Book is one suggestion.
type Book struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Rating float64 `json:"rating"`
}

type catalogFile struct {
	Subjects map[string][]Book `json:"subjects"`
	Default  []Book            `json:"default"`
}

// ErrEmptyCatalog is returned by Featured when there is nothing to pick.
var ErrEmptyCatalog = errors.New("library: no books to choose from")

// Catalog maps subject names to suggestions. Lookups are exact on the
// trimmed name; unknown subjects get the default list.
type Catalog struct {
	subjects map[string][]Book
	fallback []Book
}

// DefaultCatalog loads the built-in catalogue.
func DefaultCatalog() (*Catalog, error) {
	var f catalogFile
	if err := json.Unmarshal(catalogJSON, &f); err != nil {
		return nil, fmt.Errorf("decode embedded catalog: %w", err)
	}
	return NewCatalog(f.Subjects, f.Default), nil
}

// NewCatalog builds a catalogue from explicit lists.
func NewCatalog(subjects map[string][]Book, fallback []Book) *Catalog {
	c := &Catalog{subjects: make(map[string][]Book, len(subjects)), fallback: fallback}
	for name, books := range subjects {
		c.subjects[strings.TrimSpace(name)] = books
	}
	return c
}

// Suggest returns the books for subject. The result is a copy.
func (c *Catalog) Suggest(subject string) []Book {
	books, ok := c.subjects[strings.TrimSpace(subject)]
	if !ok {
		books = c.fallback
	}
	return append([]Book(nil), books...)
}

// Known reports whether subject has a dedicated list.
func (c *Catalog) Known(subject string) bool {
	_, ok := c.subjects[strings.TrimSpace(subject)]
	return ok
}

// Featured picks one suggestion for subject at random, weighted by rating.
func (c *Catalog) Featured(subject string) (Book, error) {
	books := c.Suggest(subject)
	if len(books) == 0 {
		return Book{}, ErrEmptyCatalog
	}

	choices := make([]weightedrand.Choice[Book, int], 0, len(books))
	for _, b := range books {
		// Ratings carry one decimal; scale to keep the weights integral.
		w := int(b.Rating*10 + 0.5)
		if w < 1 {
			w = 1
		}
		choices = append(choices, weightedrand.NewChoice(b, w))
	}

	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return Book{}, fmt.Errorf("build chooser: %w", err)
	}
	return chooser.Pick(), nil
}
