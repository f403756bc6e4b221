package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/loja_grid/internal/models"
	"github.com/Skotchmaster/loja_grid/internal/repo"
)

type ProductRepo interface {
	SearchProducts(ctx context.Context, q string) ([]models.Product, error)
	ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
}

// Engine answers product searches and keeps its index in step with catalog writes.
type Engine interface {
	Search(ctx context.Context, q string) ([]models.Product, error)
	Index(ctx context.Context, p *models.Product) error
	Remove(ctx context.Context, id uint) error
}

// SQL searches the products table directly; there is nothing to index.
type SQL struct {
	Repo ProductRepo
}

func (s *SQL) Search(ctx context.Context, q string) ([]models.Product, error) {
	return s.Repo.SearchProducts(ctx, q)
}

func (s *SQL) Index(context.Context, *models.Product) error { return nil }
func (s *SQL) Remove(context.Context, uint) error           { return nil }

type Elastic struct {
	ES    *elasticsearch.Client
	Index string
	Repo  ProductRepo
}

type document struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}
	return client, nil
}

func (e *Elastic) Search(ctx context.Context, q string) ([]models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size":    repo.ProductListLimit,
		"_source": false,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := e.ES.Search(
		e.ES.Search.WithContext(ctx),
		e.ES.Search.WithIndex(e.Index),
		e.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
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
	return e.Repo.ProductsByIDs(ctx, ids)
}

func (e *Elastic) Index(ctx context.Context, p *models.Product) error {
	doc := document{ID: p.ID, Name: p.Name, Price: p.Price.StringFixed(2)}
	if p.Description != nil {
		doc.Description = *p.Description
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := e.ES.Index(
		e.Index,
		bytes.NewReader(data),
		e.ES.Index.WithContext(ctx),
		e.ES.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product: %s", res.Status())
	}
	return nil
}

func (e *Elastic) Remove(ctx context.Context, id uint) error {
	res, err := e.ES.Delete(e.Index, strconv.FormatUint(uint64(id), 10), e.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("remove product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("remove product: %s", res.Status())
	}
	return nil
}
