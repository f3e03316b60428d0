package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"futurechat/internal/matcher"
)

// Corpus is a YAML training file: each conversation is a list of
// utterances where every line answers the one before it.
//
//	categories: [greetings]
//	conversations:
//	  - - Привет
//	    - Привет! Как дела?
//	    - Отлично
type Corpus struct {
	Categories    []string   `yaml:"categories"`
	Conversations [][]string `yaml:"conversations"`
}

func loadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	var c Corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse corpus %s: %w", path, err)
	}
	if len(c.Conversations) == 0 {
		return nil, fmt.Errorf("corpus %s has no conversations", path)
	}
	return &c, nil
}

// trainCorpus feeds every consecutive pair to the adapter and returns how
// many were accepted.
func trainCorpus(ctx context.Context, adapter *matcher.Adapter, c *Corpus) int {
	trained := 0
	for _, conv := range c.Conversations {
		for i := 0; i+1 < len(conv); i++ {
			prompt, reply := strings.TrimSpace(conv[i]), strings.TrimSpace(conv[i+1])
			if prompt == "" || reply == "" {
				continue
			}
			if adapter.Train(ctx, prompt, reply) {
				trained++
			}
		}
	}
	return trained
}

func trainCorpusFile(ctx context.Context, adapter *matcher.Adapter, path string) (int, error) {
	c, err := loadCorpus(path)
	if err != nil {
		return 0, err
	}
	return trainCorpus(ctx, adapter, c), nil
}
