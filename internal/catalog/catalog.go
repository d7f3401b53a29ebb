package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"pathportal/internal/domain"
)

//go:embed topics.yaml
var builtin []byte

type document struct {
	Topics []domain.Topic `yaml:"topics"`
}

// Catalog is an ordered, read-only list of topics.
type Catalog struct {
	topics []domain.Topic
	index  map[domain.TopicID]int
}

// New validates topics and builds a catalog that keeps their order.
func New(topics []domain.Topic) (*Catalog, error) {
	c := &Catalog{
		topics: make([]domain.Topic, 0, len(topics)),
		index:  make(map[domain.TopicID]int, len(topics)),
	}
	for i, t := range topics {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%w: topic %d: %v", domain.ErrInvalidCatalog, i, err)
		}
		if _, dup := c.index[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate topic id %q", domain.ErrInvalidCatalog, t.ID)
		}
		c.index[t.ID] = len(c.topics)
		c.topics = append(c.topics, t)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(builtin))
	if err != nil {
		panic("catalog: built-in topics: " + err.Error())
	}
	return c
}

// Load decodes a YAML document with a top-level "topics" list.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	if len(doc.Topics) == 0 {
		return nil, fmt.Errorf("%w: no topics", domain.ErrInvalidCatalog)
	}
	return New(doc.Topics)
}

// LoadFile reads a catalog from path. An empty path yields the built-in
// catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// Topics returns a copy of the topics in catalog order.
func (c *Catalog) Topics() []domain.Topic {
	out := make([]domain.Topic, len(c.topics))
	copy(out, c.topics)
	return out
}

func (c *Catalog) Lookup(id domain.TopicID) (domain.Topic, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.Topic{}, false
	}
	return c.topics[i], true
}

func (c *Catalog) Len() int { return len(c.topics) }
