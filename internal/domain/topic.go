package domain

import (
	"errors"
	"strings"
)

type TopicID = string

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Difficulties lists the known levels in display order.
var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Topic is one immutable catalog entry.
type Topic struct {
	ID                TopicID    `json:"id" yaml:"id"`
	Title             string     `json:"title" yaml:"title"`
	Description       string     `json:"description" yaml:"description"`
	VideoCount        int        `json:"videoCount" yaml:"videoCount"`
	EstimatedDuration string     `json:"estimatedDuration" yaml:"estimatedDuration"`
	Category          string     `json:"category" yaml:"category"`
	Difficulty        Difficulty `json:"difficulty" yaml:"difficulty"`
	VideoPath         string     `json:"videoPath" yaml:"videoPath"`
	Featured          bool       `json:"featured,omitempty" yaml:"featured,omitempty"`
}

// Validate checks domain invariants for Topic.
func (t Topic) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("topic id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("topic title is required")
	}
	if t.VideoCount < 0 {
		return errors.New("videoCount must not be negative")
	}
	if !t.Difficulty.Valid() {
		return errors.New("invalid difficulty: " + string(t.Difficulty))
	}
	return nil
}
