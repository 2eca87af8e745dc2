package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/gmbcrawl/internal/docstore"
	"github.com/yourorg/gmbcrawl/internal/models"
)

var code1HKI = models.RouteCode{Code: "1", Region: models.RegionHKI}

func TestUpsertCodes(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	w := NewWriter(store)

	codes := []models.RouteCode{code1HKI, {Code: "1", Region: models.RegionKLN}, {Code: "11M", Region: models.RegionNT}}
	require.NoError(t, w.UpsertCodes(ctx, codes))

	docs, err := store.List(ctx, CodesCollection)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
	assert.Equal(t, docstore.Document{"code": "1", "region": "KLN"}, docs["1_KLN"])
	assert.Equal(t, "NT", docs["11M_NT"]["region"])
}

func TestUpsertRoutesReplacesRouteIDs(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	w := NewWriter(store)
	require.NoError(t, w.UpsertCodes(ctx, []models.RouteCode{code1HKI}))

	first := []models.Route{{RouteID: 10, RouteSeq: 1}, {RouteID: 10, RouteSeq: 2}, {RouteID: 11, RouteSeq: 1}}
	require.NoError(t, w.UpsertRoutes(ctx, code1HKI, first))

	second := []models.Route{{RouteID: 12, RouteSeq: 1}}
	require.NoError(t, w.UpsertRoutes(ctx, code1HKI, second))

	doc, err := store.Get(ctx, "route_codes/1_HKI")
	require.NoError(t, err)
	assert.Equal(t, []any{"12_1"}, doc["route_ids"])
	assert.Equal(t, "1", doc["code"], "merge keeps the code fields")
}

func TestUpsertRoutesFields(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	w := NewWriter(store)

	route := models.Route{
		RouteID: 2004791, RouteSeq: 1,
		OrigTC: "中環", OrigSC: "中环", OrigEN: "Central",
		DestTC: "堅尼地城", DestSC: "坚尼地城", DestEN: "Kennedy Town",
	}
	require.NoError(t, w.UpsertRoutes(ctx, code1HKI, []models.Route{route}))

	doc, err := store.Get(ctx, "route_codes/1_HKI/routes/2004791_1")
	require.NoError(t, err)

	var got struct {
		RouteID   int64  `json:"route_id"`
		RouteSeq  int    `json:"route_seq"`
		RouteCode string `json:"route_code"`
		OrigSC    string `json:"route_orig_sc"`
		DestTC    string `json:"route_dest_tc"`
		DestSC    string `json:"route_dest_sc"`
		DestEN    string `json:"route_dest_en"`
		Region    string `json:"region"`
	}
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, int64(2004791), got.RouteID)
	assert.Equal(t, 1, got.RouteSeq)
	assert.Equal(t, "1", got.RouteCode)
	assert.Equal(t, "中环", got.OrigSC)
	assert.Equal(t, "堅尼地城", got.DestTC)
	assert.Equal(t, "坚尼地城", got.DestSC)
	assert.Equal(t, "Kennedy Town", got.DestEN)
	assert.Equal(t, "HKI", got.Region)
	assert.NotContains(t, doc, "route_desc_sc")
}

func TestUpsertStops(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	w := NewWriter(store)
	route := models.Route{RouteID: 10, RouteSeq: 1}
	require.NoError(t, w.UpsertRoutes(ctx, code1HKI, []models.Route{route}))

	stops := []models.StopInfo{
		{StopID: 20001477, StopSeq: 1, Latitude: 22.28552, Longitude: 114.15769},
		{StopID: 20001478, StopSeq: 2, Latitude: 22.28560, Longitude: 114.15775},
		{StopID: 20001479, StopSeq: 3, Latitude: 22.3, Longitude: 114.2},
	}
	require.NoError(t, w.UpsertStops(ctx, code1HKI, route, stops))

	docs, err := store.List(ctx, "route_codes/1_HKI/routes/10_1/stops")
	require.NoError(t, err)
	assert.Len(t, docs, len(stops))

	var first struct {
		StopID   int64             `json:"stop_id"`
		StopSeq  int               `json:"stop_seq"`
		RouteID  int64             `json:"route_id"`
		Geohash  string            `json:"geohash"`
		Location docstore.GeoPoint `json:"location"`
	}
	require.NoError(t, docs["20001477"].Decode(&first))
	assert.Equal(t, int64(20001477), first.StopID)
	assert.Equal(t, int64(10), first.RouteID)
	assert.Equal(t, "wecnv8zndf", first.Geohash)
	assert.Equal(t, docstore.GeoPoint{Latitude: 22.28552, Longitude: 114.15769}, first.Location)

	routeDoc, err := store.Get(ctx, "route_codes/1_HKI/routes/10_1")
	require.NoError(t, err)
	var ids struct {
		StopIDs []int64 `json:"stop_ids"`
	}
	require.NoError(t, routeDoc.Decode(&ids))
	assert.ElementsMatch(t, []int64{20001477, 20001478, 20001479}, ids.StopIDs)
	assert.Equal(t, float64(10), routeDoc["route_id"], "merge keeps the route fields")
}

func TestUpsertStopsReplacesStopIDs(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	w := NewWriter(store)
	route := models.Route{RouteID: 10, RouteSeq: 2}

	require.NoError(t, w.UpsertStops(ctx, code1HKI, route, []models.StopInfo{{StopID: 1}, {StopID: 2}}))
	require.NoError(t, w.UpsertStops(ctx, code1HKI, route, []models.StopInfo{{StopID: 3}}))

	doc, err := store.Get(ctx, "route_codes/1_HKI/routes/10_2")
	require.NoError(t, err)
	assert.Equal(t, []any{float64(3)}, doc["stop_ids"])
}

func TestPaths(t *testing.T) {
	route := models.Route{RouteID: 10, RouteSeq: 1}

	p, err := StopPath(code1HKI, route, 20001477)
	require.NoError(t, err)
	assert.Equal(t, docstore.Path("route_codes/1_HKI/routes/10_1/stops/20001477"), p)

	// both directions share route_id and must not collide
	out, err := RoutePath(code1HKI, models.Route{RouteID: 2004791, RouteSeq: 1})
	require.NoError(t, err)
	back, err := RoutePath(code1HKI, models.Route{RouteID: 2004791, RouteSeq: 2})
	require.NoError(t, err)
	assert.Equal(t, docstore.Path("route_codes/1_HKI/routes/2004791_1"), out)
	assert.Equal(t, docstore.Path("route_codes/1_HKI/routes/2004791_2"), back)

	_, err = CodePath(models.RouteCode{Code: "A/B", Region: models.RegionNT})
	assert.Error(t, err)
}

type failingStore struct {
	*docstore.Memory
}

func (f failingStore) Batch() docstore.Batch {
	return failingBatch{f.Memory.Batch()}
}

type failingBatch struct {
	docstore.Batch
}

func (failingBatch) Commit(context.Context) error {
	return errors.New("store unavailable")
}

func TestUpsertWrapsCommitErrors(t *testing.T) {
	w := NewWriter(failingStore{docstore.NewMemory()})
	route := models.Route{RouteID: 123, RouteSeq: 1}

	err := w.UpsertStops(context.Background(), code1HKI, route, []models.StopInfo{{StopID: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert stops for route 123_1")
	assert.Contains(t, err.Error(), "store unavailable")
}
