package ports

import "pathportal/internal/domain"

type Catalog interface {
	Topics() []domain.Topic
	Lookup(id domain.TopicID) (domain.Topic, bool)
}
