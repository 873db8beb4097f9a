package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/university/services/student/internal/models"
)

// Fields searched by Search, with the full name weighted highest.
var searchFields = []string{"fullname^2", "nom", "prenom", "matricule", "email"}

// Elastic mirrors students into one Elasticsearch index.
type Elastic struct {
	Client *elasticsearch.Client
	Index  string
}

func NewElastic(url, user, password, index string) (*Elastic, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &Elastic{Client: client, Index: index}, nil
}

// Ping checks that the cluster answers.
func (e *Elastic) Ping(ctx context.Context) error {
	res, err := e.Client.Info(e.Client.Info.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(res.StatusCode, res.Body)
	}
	return nil
}

type document struct {
	ID        uint    `json:"id"`
	Fullname  string  `json:"fullname"`
	Nom       *string `json:"nom,omitempty"`
	Prenom    *string `json:"prenom,omitempty"`
	Matricule string  `json:"matricule"`
	Email     string  `json:"email"`
	Filiere   *string `json:"filiere,omitempty"`
	Niveau    *string `json:"niveau,omitempty"`
	Statut    string  `json:"statut"`
}

func (e *Elastic) Upsert(ctx context.Context, s *models.Student) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(document{
		ID:        s.ID,
		Fullname:  s.Fullname,
		Nom:       s.Nom,
		Prenom:    s.Prenom,
		Matricule: s.Matricule,
		Email:     s.Email,
		Filiere:   s.Filiere,
		Niveau:    s.Niveau,
		Statut:    s.Statut,
	}); err != nil {
		return err
	}

	res, err := e.Client.Index(e.Index, &buf,
		e.Client.Index.WithContext(ctx),
		e.Client.Index.WithDocumentID(docID(s.ID)),
		e.Client.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("index student %d: %w", s.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index student %d: %w", s.ID, responseError(res.StatusCode, res.Body))
	}
	return nil
}

// Remove deletes the document of the student. A missing document is not an
// error.
func (e *Elastic) Remove(ctx context.Context, id uint) error {
	res, err := e.Client.Delete(e.Index, docID(id), e.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("remove student %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove student %d: %w", id, responseError(res.StatusCode, res.Body))
	}
	return nil
}

// Search returns the ids of matching students, best match first.
func (e *Elastic) Search(ctx context.Context, q string, offset, limit int) ([]uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    searchFields,
				"fuzziness": "AUTO",
			},
		},
		"_source": false,
		"from":    offset,
		"size":    limit,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := e.Client.Search(
		e.Client.Search.WithContext(ctx),
		e.Client.Search.WithIndex(e.Index),
		e.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search students: %w", responseError(res.StatusCode, res.Body))
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func responseError(status int, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Errorf("elasticsearch status %d: %s", status, bytes.TrimSpace(msg))
}
