package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ekoshkin/recallbox/internal/client/models"
	"github.com/ekoshkin/recallbox/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStore_Upsert(t *testing.T) {
	var got Row
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/records", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, 5*time.Second)
	defer s.Close()

	row := Row{ID: "a1", Category: models.CategoryVocabulary, PrimaryText: "ephemeral", CreatedAt: 1, MasteryLevel: -1, SyncVersion: 1}
	require.NoError(t, s.Upsert(context.Background(), row))
	assert.Equal(t, row, got)
}

func TestHTTPStore_SelectSince(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "42", r.URL.Query().Get("since"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(selectResponse{Records: []Row{
			{ID: "a1", Category: models.CategoryVocabulary, PrimaryText: "x", CreatedAt: 1, SyncVersion: 2, LastSyncedAt: 99},
		}})
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, 5*time.Second)
	defer s.Close()

	rows, err := s.SelectSince(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a1", rows[0].ID)
	assert.Equal(t, int64(99), rows[0].LastSyncedAt)
}

func TestHTTPStore_DeleteByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		switch r.URL.Path {
		case "/api/records/a1":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, 5*time.Second)
	defer s.Close()

	require.NoError(t, s.DeleteByID(context.Background(), "a1"))
	// 404 means the row is already gone, which is fine
	require.NoError(t, s.DeleteByID(context.Background(), "missing"))
}

func TestHTTPStore_ServerErrorsMapToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, 5*time.Second)
	defer s.Close()

	err := s.Upsert(context.Background(), Row{ID: "a1"})
	assert.ErrorIs(t, err, common.ErrUnavailable)

	_, err = s.SelectSince(context.Background(), 0)
	assert.ErrorIs(t, err, common.ErrUnavailable)

	assert.ErrorIs(t, s.Ping(context.Background()), common.ErrUnavailable)
}

func TestHTTPStore_UnreachableHost(t *testing.T) {
	s := NewHTTPStore("http://127.0.0.1:1", 500*time.Millisecond)
	defer s.Close()

	err := s.Ping(context.Background())
	assert.ErrorIs(t, err, common.ErrUnavailable)
}

func TestRow_Validate(t *testing.T) {
	valid := Row{ID: "a1", Category: models.CategoryVocabulary, PrimaryText: "x", CreatedAt: 1}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, Row{}.Validate(), common.ErrMalformedRow)
	assert.ErrorIs(t, Row{ID: "a1", Category: "bogus", CreatedAt: 1}.Validate(), common.ErrMalformedRow)
	assert.ErrorIs(t, Row{ID: "a1", Category: models.CategoryVocabulary}.Validate(), common.ErrMalformedRow)

	// tombstone markers only need an id, in any historical form
	assert.NoError(t, Row{ID: "a1", Deleted: true}.Validate())
	assert.NoError(t, Row{ID: "a1", DeletedAt: 5}.Validate())
	assert.NoError(t, Row{ID: "a1", Category: models.CategoryDeletedSentinel}.Validate())
	assert.NoError(t, Row{ID: "a1", MasteryLevel: models.MasterySentinelDeleted, Category: models.CategoryOther}.Validate())
}
