package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/zalepa/crimerank/crime"
	"github.com/zalepa/crimerank/server"
)

var records = []crime.Record{
	{Year: 2020, Municipality: "A", Category: "X", Facts: 10, Population: 1000},
	{Year: 2020, Municipality: "A", Category: "Y", Facts: 5, Population: 1000},
	{Year: 2020, Municipality: "B", Category: "X", Facts: 1, Population: 500},
	{Year: 2020, Municipality: "Ghost", Category: "X", Facts: 1, Population: 0},
	{Year: 2021, Municipality: "A", Category: "X", Facts: 20, Population: 1000},
}

func get(t *testing.T, path string) *http.Response {
	t.Helper()
	srv := httptest.NewServer(server.New(context.Background(), crime.NewDataset(records), 10))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + path)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(v)).Required()
}

func TestHealth(t *testing.T) {
	resp := get(t, "/health")
	gt.Equal(t, resp.StatusCode, http.StatusOK)
}

func TestMetadata(t *testing.T) {
	resp := get(t, "/api/metadata")
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var meta struct {
		Years          []int    `json:"years"`
		Categories     []string `json:"categories"`
		Municipalities []string `json:"municipalities"`
	}
	decode(t, resp, &meta)
	gt.Equal(t, meta.Years, []int{2021, 2020})
	gt.Equal(t, meta.Categories, []string{"X", "Y"})
	gt.Equal(t, meta.Municipalities, []string{"A", "B", "Ghost"})
}

type rankingBody struct {
	Total int `json:"total"`
	Top   []struct {
		Municipality    string  `json:"municipality"`
		Rank            int     `json:"rank"`
		RatePerThousand float64 `json:"ratePerThousand"`
	} `json:"top"`
	Summary   string   `json:"summary"`
	Undefined []string `json:"undefined"`
}

func TestRanking(t *testing.T) {
	resp := get(t, "/api/ranking?year=2020&n=1")
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var body rankingBody
	decode(t, resp, &body)
	gt.Equal(t, body.Total, 2)
	gt.Equal(t, len(body.Top), 1)
	gt.Equal(t, body.Top[0].Municipality, "A")
	gt.Equal(t, body.Top[0].RatePerThousand, 15.0)
	gt.Equal(t, body.Summary, "1. A - 15 faits pour 1000 habitants (15.00‰)\n")
	gt.Equal(t, body.Undefined, []string{"Ghost"})
}

func TestRanking_Ascending(t *testing.T) {
	resp := get(t, "/api/ranking?year=2020&direction=asc&category=X")
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var body rankingBody
	decode(t, resp, &body)
	gt.Equal(t, body.Top[0].Municipality, "B")
	gt.Equal(t, body.Top[1].Municipality, "A")
	gt.Equal(t, body.Top[1].RatePerThousand, 10.0)
}

func TestRanking_InvalidFilter(t *testing.T) {
	for _, path := range []string{
		"/api/ranking?year=1999",
		"/api/ranking?year=abc",
		"/api/ranking?category=",
		"/api/ranking?n=0",
		"/api/ranking?n=51",
		"/api/ranking?direction=sideways",
		"/api/ranking?min_population=-5",
	} {
		t.Run(path, func(t *testing.T) {
			resp := get(t, path)
			gt.Equal(t, resp.StatusCode, http.StatusBadRequest)
		})
	}
}

func TestEntry(t *testing.T) {
	resp := get(t, "/api/ranking/B?year=2020")
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var body struct {
		Total    int    `json:"total"`
		Sentence string `json:"sentence"`
	}
	decode(t, resp, &body)
	gt.Equal(t, body.Total, 2)
	gt.S(t, body.Sentence).Contains("B est la 2e / 2 ville avec le plus haut")

	gt.Equal(t, get(t, "/api/ranking/C?year=2020").StatusCode, http.StatusNotFound)
	gt.Equal(t, get(t, "/api/ranking/Ghost?year=2020").StatusCode, http.StatusUnprocessableEntity)
}

func TestEvolution(t *testing.T) {
	resp := get(t, "/api/evolution?municipality=A&category=X")
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var body struct {
		Title string `json:"title"`
		Years []int  `json:"years"`
		Lines []struct {
			Municipality string `json:"municipality"`
			Points       []struct {
				Year            int     `json:"year"`
				RatePerThousand float64 `json:"ratePerThousand"`
			} `json:"points"`
		} `json:"lines"`
	}
	decode(t, resp, &body)
	gt.Equal(t, body.Years, []int{2020, 2021})
	gt.Equal(t, len(body.Lines), 1)
	gt.Equal(t, body.Lines[0].Points[1].RatePerThousand, 20.0)
	gt.Equal(t, body.Title, "Évolution du taux de criminalité pour A")
}

func TestEvolutionPNG(t *testing.T) {
	resp := get(t, "/api/evolution.png?municipality=A&municipality=B")
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	gt.Equal(t, resp.Header.Get("Content-Type"), "image/png")

	data, err := io.ReadAll(resp.Body)
	gt.NoError(t, err)
	gt.True(t, strings.HasPrefix(string(data), "\x89PNG"))

	gt.Equal(t, get(t, "/api/evolution.png?municipality=Nowhere").StatusCode, http.StatusNotFound)
}

func TestMetrics(t *testing.T) {
	srv := httptest.NewServer(server.New(context.Background(), crime.NewDataset(records), 10))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/ranking?year=2020")
	gt.NoError(t, err).Required()
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	gt.NoError(t, err).Required()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	gt.NoError(t, err)
	gt.S(t, string(data)).Contains(`crimerank_rankings_computed_total{direction="desc"} 1`)
	gt.S(t, string(data)).Contains(`route="/api/ranking"`)
}
