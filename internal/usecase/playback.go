package usecase

import (
	"errors"
	"math"

	"pathportal/internal/domain"
	"pathportal/internal/domain/ports"
)

// PlaybackProgress is the result of a time update.
type PlaybackProgress struct {
	TopicID domain.TopicID `json:"topicId"`
	Percent float64        `json:"percent"`
	Updated bool           `json:"updated"`
}

// TrackPlayback turns a player time update into a progress write.
// Updates with an unknown duration are ignored.
type TrackPlayback struct {
	Progress ports.ProgressStore
	Catalog  ports.Catalog
}

func (uc TrackPlayback) Execute(id domain.TopicID, positionSec, durationSec float64) (PlaybackProgress, error) {
	if uc.Progress == nil {
		return PlaybackProgress{}, errors.New("progress store not configured")
	}
	if uc.Catalog != nil {
		if _, err := (GetTopic{Catalog: uc.Catalog}).Execute(id); err != nil {
			return PlaybackProgress{}, err
		}
	}

	if !validDuration(durationSec) || math.IsNaN(positionSec) {
		return PlaybackProgress{TopicID: id, Percent: uc.Progress.Get(id)}, nil
	}

	uc.Progress.Update(id, positionSec/durationSec*100)
	return PlaybackProgress{TopicID: id, Percent: uc.Progress.Get(id), Updated: true}, nil
}

// ResumePosition answers the player's metadata event with the second to
// seek to.
type ResumePosition struct {
	Progress ports.ProgressStore
	Catalog  ports.Catalog
}

func (uc ResumePosition) Execute(id domain.TopicID, durationSec float64) (float64, error) {
	if uc.Progress == nil {
		return 0, errors.New("progress store not configured")
	}
	if uc.Catalog != nil {
		if _, err := (GetTopic{Catalog: uc.Catalog}).Execute(id); err != nil {
			return 0, err
		}
	}
	if !validDuration(durationSec) {
		return 0, nil
	}
	return uc.Progress.Get(id) * durationSec / 100, nil
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}
