package usecase

import (
	"errors"
	"fmt"

	"pathportal/internal/domain"
	"pathportal/internal/domain/ports"
	"pathportal/internal/query"
)

type GetTopic struct {
	Catalog ports.Catalog
}

func (uc GetTopic) Execute(id domain.TopicID) (domain.Topic, error) {
	if uc.Catalog == nil {
		return domain.Topic{}, errors.New("catalog not configured")
	}
	t, ok := uc.Catalog.Lookup(id)
	if !ok {
		return domain.Topic{}, fmt.Errorf("topic %q: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

// GetTopicDetail resolves the topic page, including the learner's state and
// related topics.
type GetTopicDetail struct {
	Catalog ports.Catalog
	State   ports.SnapshotSource
}

func (uc GetTopicDetail) Execute(id domain.TopicID) (query.TopicDetail, error) {
	t, err := GetTopic{Catalog: uc.Catalog}.Execute(id)
	if err != nil {
		return query.TopicDetail{}, err
	}
	var snap domain.Snapshot
	if uc.State != nil {
		snap = uc.State.Snapshot()
	}
	return query.Detail(uc.Catalog.Topics(), t, snap), nil
}
