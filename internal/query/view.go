package query

import "pathportal/internal/domain"

// TopicView is a catalog topic decorated with the learner's state.
type TopicView struct {
	domain.Topic
	Progress   float64 `json:"progress"`
	Bookmarked bool    `json:"bookmarked"`
	HasNote    bool    `json:"hasNote"`
}

// TopicDetail is the single-topic page.
type TopicDetail struct {
	TopicView
	Note    string         `json:"note"`
	Related []domain.Topic `json:"related"`
}

func Annotate(topics []domain.Topic, snap domain.Snapshot) []TopicView {
	out := make([]TopicView, 0, len(topics))
	for _, t := range topics {
		out = append(out, annotate(t, snap))
	}
	return out
}

func annotate(t domain.Topic, snap domain.Snapshot) TopicView {
	return TopicView{
		Topic:      t,
		Progress:   snap.Progress[t.ID],
		Bookmarked: snap.IsBookmarked(t.ID),
		HasNote:    domain.HasNote(snap.Notes[t.ID]),
	}
}

// Detail builds the topic page for t.
func Detail(topics []domain.Topic, t domain.Topic, snap domain.Snapshot) TopicDetail {
	return TopicDetail{
		TopicView: annotate(t, snap),
		Note:      snap.Notes[t.ID],
		Related:   Related(topics, t, DefaultRelatedLimit),
	}
}
