package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchSink indexes turns so past questions can be searched.
type ElasticsearchSink struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchSink(client *elasticsearch.Client, index string) *ElasticsearchSink {
	return &ElasticsearchSink{client: client, index: index}
}

func (s *ElasticsearchSink) Append(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithDocumentID(rec.TurnID),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index turn %s: %w", rec.TurnID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index turn %s: %s", rec.TurnID, responseError(res.Status(), res.Body))
	}
	return nil
}

func (s *ElasticsearchSink) Clear(ctx context.Context, sessionID string) error {
	query, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{"sessionId.keyword": sessionID},
		},
	})
	if err != nil {
		return err
	}

	res, err := s.client.DeleteByQuery(
		[]string{s.index},
		bytes.NewReader(query),
		s.client.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	defer res.Body.Close()

	// A missing index simply means nothing was archived yet.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete session %s: %s", sessionID, responseError(res.Status(), res.Body))
	}
	return nil
}

func responseError(status string, body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 1024))
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return status
	}
	return status + ": " + msg
}
