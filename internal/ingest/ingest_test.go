package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"card-api/internal/geo"
)

type fakeImporter struct {
	got geo.Hierarchy
	err error
}

func (f *fakeImporter) ImportHierarchy(_ context.Context, h geo.Hierarchy) (geo.Stats, error) {
	f.got = h
	return h.Stats(), f.err
}

type fakeRedis struct {
	sets  map[string]interface{}
	incrs []string
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if f.sets == nil {
		f.sets = map[string]interface{}{}
	}
	f.sets[key] = value
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	f.incrs = append(f.incrs, key)
	return redis.NewIntResult(int64(len(f.incrs)), nil)
}

const sample = `COUNTY_CODE,COUNTY_NAME,CONST_CODE,CONSTITUENCY_NAME,WARD_CODE,WARD_NAME
47,NAIROBI,274,WESTLANDS,1,Westlands
47,NAIROBI,274,WESTLANDS,2,Kangemi
47,NAIROBI,274,WESTLANDS,2,Kangemi
47,NAIROBI,274,WESTLANDS
1,MOMBASA,1,"CHANGAMWE, PORT",1,Port Reitz
`

func writeSource(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "wards.csv")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestRunGeoWritesArtifactAndImports(t *testing.T) {
	out := filepath.Join(t.TempDir(), "src", "data", "kenya-geo.json")
	imp := &fakeImporter{}
	rc := &fakeRedis{}
	pub := &RedisPublisher{rc: rc, Key: DefaultHierarchyKey, VersionKey: DefaultVersionKey}

	res, err := RunGeo(context.Background(), Options{
		SourcePath: writeSource(t, sample),
		OutputPath: out,
		Importer:   imp,
		Publisher:  pub,
	})
	require.NoError(t, err)

	assert.Equal(t, geo.Report{Rows: 5, Kept: 4, Dropped: 1, Duplicates: 1}, res.Report)
	assert.Equal(t, geo.Stats{Counties: 2, Constituencies: 2, Wards: 3}, res.Stats)

	h, err := geo.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kangemi", "Westlands"}, h["NAIROBI"]["WESTLANDS"])
	assert.Equal(t, []string{"Port Reitz"}, h["MOMBASA"]["CHANGAMWE, PORT"])
	assert.True(t, h.Equal(imp.got))

	require.Contains(t, rc.sets, DefaultHierarchyKey)
	published, err := geo.Decode([]byte(rc.sets[DefaultHierarchyKey].(string)))
	require.NoError(t, err)
	assert.True(t, h.Equal(published))
	assert.Equal(t, []string{DefaultVersionKey}, rc.incrs)
}

func TestRunGeoUnreadableSourceWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "geo.json")

	_, err := RunGeo(context.Background(), Options{
		SourcePath: filepath.Join(t.TempDir(), "missing.csv"),
		OutputPath: out,
	})
	require.ErrorIs(t, err, ErrSourceUnreadable)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunGeoHeaderOnlyYieldsEmptyArtifact(t *testing.T) {
	out := filepath.Join(t.TempDir(), "geo.json")

	res, err := RunGeo(context.Background(), Options{
		SourcePath: writeSource(t, "COUNTY_CODE,COUNTY_NAME,CONST_CODE,CONSTITUENCY_NAME,WARD_CODE,WARD_NAME\n"),
		OutputPath: out,
	})
	require.NoError(t, err)
	assert.Equal(t, geo.Stats{}, res.Stats)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

func TestRunGeoImportFailure(t *testing.T) {
	boom := errors.New("db down")

	_, err := RunGeo(context.Background(), Options{
		SourcePath: writeSource(t, sample),
		OutputPath: filepath.Join(t.TempDir(), "geo.json"),
		Importer:   &fakeImporter{err: boom},
	})
	require.ErrorIs(t, err, boom)
}
