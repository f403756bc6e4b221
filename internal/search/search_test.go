package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/loja_grid/internal/models"
	"github.com/Skotchmaster/loja_grid/internal/repo"
	"github.com/Skotchmaster/loja_grid/internal/testdb"
)

type recorded struct {
	method, path string
	body         []byte
}

func fakeES(t *testing.T, searchHits string) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recorded{r.Method, r.URL.Path, body})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
		case http.MethodPut:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"result":"created"}`))
		default:
			_, _ = w.Write([]byte(searchHits))
		}
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client, &calls
}

func seed(t *testing.T) (*repo.GormRepo, []models.Product) {
	r := &repo.GormRepo{DB: testdb.InitTestDB(t)}
	desc := "xícara de porcelana"
	items := []models.Product{
		{Name: "Caneca", Description: &desc, Price: decimal.RequireFromString("10")},
		{Name: "Prato", Price: decimal.RequireFromString("20")},
	}
	for i := range items {
		require.NoError(t, r.CreateProduct(context.Background(), &items[i]))
	}
	return r, items
}

func TestSQLSearch(t *testing.T) {
	r, items := seed(t)
	s := &SQL{Repo: r}

	found, err := s.Search(context.Background(), "porcelana")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, items[0].ID, found[0].ID)

	require.NoError(t, s.Index(context.Background(), &items[0]))
	require.NoError(t, s.Remove(context.Background(), items[0].ID))
}

func TestElasticSearchLoadsHitsFromDB(t *testing.T) {
	r, items := seed(t)
	client, calls := fakeES(t, `{"hits":{"hits":[{"_id":"2"},{"_id":"junk"},{"_id":"1"}]}}`)
	e := &Elastic{ES: client, Index: "produtos", Repo: r}

	found, err := e.Search(context.Background(), "prato")
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, items[1].ID, found[0].ID)
	require.Equal(t, items[0].ID, found[1].ID)

	require.Len(t, *calls, 1)
	require.Equal(t, "/produtos/_search", (*calls)[0].path)
	var q map[string]any
	require.NoError(t, json.Unmarshal((*calls)[0].body, &q))
	require.Contains(t, q, "query")
}

func TestElasticIndexAndRemove(t *testing.T) {
	_, items := seed(t)
	client, calls := fakeES(t, `{}`)
	e := &Elastic{ES: client, Index: "produtos"}

	require.NoError(t, e.Index(context.Background(), &items[0]))
	require.NoError(t, e.Remove(context.Background(), items[0].ID))

	require.Len(t, *calls, 2)
	require.Equal(t, http.MethodPut, (*calls)[0].method)
	require.Equal(t, "/produtos/_doc/1", (*calls)[0].path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal((*calls)[0].body, &doc))
	require.Equal(t, "Caneca", doc["name"])
	require.Equal(t, "10.00", doc["price"])

	require.Equal(t, http.MethodDelete, (*calls)[1].method)
}
