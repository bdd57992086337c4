package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"

	"github.com/studenthub/backend/internal/models"
)

const studentIndex = "students"

// Indexer mirrors student records into Elasticsearch and serves the
// search endpoint. A nil client disables it; callers then fall back to
// the record store.
type Indexer struct {
	Client *elasticsearch.Client
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("creating elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("connecting to elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	return client, nil
}

type studentDoc struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	StudentID string    `json:"student_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Grade     string    `json:"grade"`
	Course    string    `json:"course"`
}

func (ix *Indexer) IndexStudent(ctx context.Context, s *models.Student) error {
	doc := studentDoc{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		StudentID: s.StudentID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Grade:     s.Grade,
		Course:    s.Course,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}

	res, err := ix.Client.Index(
		studentIndex,
		&buf,
		ix.Client.Index.WithContext(ctx),
		ix.Client.Index.WithDocumentID(s.ID.String()),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("indexing student: %s", res.Status())
	}
	return nil
}

func (ix *Indexer) RemoveStudent(ctx context.Context, id uuid.UUID) error {
	res, err := ix.Client.Delete(
		studentIndex,
		id.String(),
		ix.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	// A missing document is fine: the record may never have been indexed.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("removing student from index: %s", res.Status())
	}
	return nil
}

// SearchStudents runs a fuzzy multi-field match restricted to the owner's
// records and returns the matching ids in relevance order. The second
// return reports whether the index answered at all.
func (ix *Indexer) SearchStudents(ctx context.Context, ownerID uuid.UUID, query string) ([]uuid.UUID, bool, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"first_name^2", "last_name^2", "student_id", "email", "course", "grade"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"owner_id": ownerID.String()},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, false, err
	}

	res, err := ix.Client.Search(
		ix.Client.Search.WithContext(ctx),
		ix.Client.Search.WithIndex(studentIndex),
		ix.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, false, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, false, fmt.Errorf("search error: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source studentDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, false, err
	}

	ids := make([]uuid.UUID, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, true, nil
}
