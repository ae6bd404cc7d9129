package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandash/internal/models"
	"loandash/internal/query"
)

func TestFetchPageDecodesResponse(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, LoansPath, r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"loans":[{"id":"loan-10001","amount":5000,"status":"approved"}],"total":7}`))
	}))
	defer srv.Close()

	minAmount := 2000
	d := query.Build(models.Cursor{Page: 2, PageSize: 1}, models.Filter{MinAmount: &minAmount})

	page, err := New(srv.URL + "/").FetchPage(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, d.Encode(), gotQuery)
	assert.Equal(t, 7, page.Total)
	require.Len(t, page.Loans, 1)
	assert.Equal(t, "loan-10001", page.Loans[0].ID)
	assert.Equal(t, models.StatusApproved, page.Loans[0].Status)
}

func TestFetchPageNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchPage(context.Background(), query.Build(models.Cursor{}, models.Filter{}))
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Contains(t, te.Error(), "500")
}

func TestFetchPageBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchPage(context.Background(), query.Build(models.Cursor{}, models.Filter{}))
	assert.True(t, IsTransportError(err))
}

func TestFetchPageNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, WithTimeout(time.Second)).FetchPage(context.Background(), query.Build(models.Cursor{}, models.Filter{}))
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.NotEmpty(t, err.Error())
}

func TestWithTimeoutLeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	c := New("http://localhost", WithHTTPClient(shared), WithTimeout(time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
	assert.NotSame(t, shared, c.httpClient)
}

func TestFetchPageEmptyLoansIsNonNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total":0}`))
	}))
	defer srv.Close()

	page, err := New(srv.URL).FetchPage(context.Background(), query.Build(models.Cursor{}, models.Filter{}))
	require.NoError(t, err)
	assert.NotNil(t, page.Loans)
	assert.Equal(t, 0, page.Total)
}
