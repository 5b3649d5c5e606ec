// Package id generates prefixed identifiers for results and their parts.
package id

import (
	nanoid "github.com/matoous/go-nanoid/v2"
)

const DefaultLength = 21

const (
	PrefixResult      = "opt"
	PrefixImprovement = "imp"
	PrefixSuggestion  = "sug"
)

func New(prefix string) string {
	id, err := nanoid.New(DefaultLength)
	if err != nil {
		panic("nanoid generation failed: " + err.Error())
	}
	return prefix + "_" + id
}

func NewResult() string      { return New(PrefixResult) }
func NewImprovement() string { return New(PrefixImprovement) }
func NewSuggestion() string  { return New(PrefixSuggestion) }
