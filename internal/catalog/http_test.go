// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-reader/internal/catalog"
)

func serve(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	return recorder
}

/*
TestHandler_Routes covers the proxy status mapping.
*/
func TestHandler_Routes(t *testing.T) {
	source := newFakeSource()
	source.manga["m1"] = catalog.Manga{ID: "m1", Title: "Dorohedoro"}
	source.atHome["ch1"] = catalog.AtHome{BaseURL: "https://node.test", Hash: "h", Data: []string{"a.png"}}

	routes := catalog.NewHandler(catalog.NewService(source, catalog.ServiceConfig{})).Routes()

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"genres", "/genres", http.StatusOK},
		{"details", "/manga/m1", http.StatusOK},
		{"unknown_manga", "/manga/nope", http.StatusNotFound},
		{"chapters_degrade", "/manga/m1/chapters", http.StatusOK},
		{"pages", "/chapters/ch1/pages", http.StatusOK},
		{"unknown_chapter", "/chapters/nope/pages", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(t, routes, tt.path).Code)
		})
	}
}

/*
TestHandler_Search filters by comma separated genres.
*/
func TestHandler_Search(t *testing.T) {
	source := newFakeSource()
	source.listResult = []catalog.Manga{
		{ID: "a", Tags: []string{"Drama"}},
		{ID: "b", Tags: []string{"Magic"}},
		{ID: "c", Tags: []string{"Thriller"}},
	}
	routes := catalog.NewHandler(catalog.NewService(source, catalog.ServiceConfig{RandIntN: fixedOffset(0)})).Routes()

	recorder := serve(t, routes, "/manga?genre=Drama,Thriller")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []catalog.Listing `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "a", body.Data[0].ID)
	assert.Equal(t, "c", body.Data[1].ID)
}
