package redis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/raviX007/natural-language-wine-search/internal/db"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/filter"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

func TestIsRedisErr(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisError("Unknown Index Name")))

	err := c.Do(context.Background(), c.B().Ping().Build()).Error()
	if !IsRedisErr(err, "unknown index name") {
		t.Errorf("IsRedisErr(%v) = false", err)
	}
	if IsRedisErr(context.Canceled, "canceled") {
		t.Error("non-server errors must not match")
	}
}

// --- hash.go tests ---

func TestHSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET" && cmd[1] == "winesearch:_meta:wines"
		})).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "winesearch:_meta:wines", map[string]string{"name": "wines"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "HSET" })).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "k", map[string]string{"f": "v"})
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestHSetMulti(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(3)),
			mock.ErrorResult(context.DeadlineExceeded),
		})

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "k1", Fields: map[string]string{"name": "Opus One"}},
		{Key: "k2", Fields: map[string]string{"name": "Sassicaia"}},
	})
	if err == nil || !strings.Contains(err.Error(), "k2") {
		t.Fatalf("expected error naming k2, got %v", err)
	}
}

func TestHSetMulti_Empty(t *testing.T) {
	s := NewStoreForTest(nil)
	if err := s.HSetMulti(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHGetAll_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "k")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"name": mock.RedisString("Opus One"),
			"year": mock.RedisString("2018"),
		})))

	s := NewStoreForTest(c)
	m, err := s.HGetAll(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["name"] != "Opus One" || m["year"] != "2018" {
		t.Errorf("unexpected map: %v", m)
	}
}

func TestHGetAllMulti(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{"f": mock.RedisString("a")})),
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{"f": mock.RedisString("b")})),
		})

	s := NewStoreForTest(c)
	results, err := s.HGetAllMulti(context.Background(), []string{"k1", "k2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || results[0]["f"] != "a" || results[1]["f"] != "b" {
		t.Errorf("unexpected results: %v", results)
	}

	empty, err := NewStoreForTest(nil).HGetAllMulti(context.Background(), nil)
	if err != nil || empty != nil {
		t.Errorf("empty keys: got %v, %v", empty, err)
	}
}

func TestDel_MultipleKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "k1", "k2")).
		Return(mock.Result(mock.RedisInt64(2)))

	s := NewStoreForTest(c)
	if err := s.Del(context.Background(), "k1", "k2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NewStoreForTest(nil).Del(context.Background()); err != nil {
		t.Fatalf("no keys: unexpected error: %v", err)
	}
}

func TestExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("EXISTS", "k")).Return(mock.Result(mock.RedisInt64(1))),
		c.EXPECT().Do(gomock.Any(), mock.Match("EXISTS", "k")).Return(mock.Result(mock.RedisInt64(0))),
	)

	s := NewStoreForTest(c)
	if ok, err := s.Exists(context.Background(), "k"); err != nil || !ok {
		t.Errorf("first Exists = %v, %v", ok, err)
	}
	if ok, err := s.Exists(context.Background(), "k"); err != nil || ok {
		t.Errorf("second Exists = %v, %v", ok, err)
	}
}

func TestScan_MultiPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	first := true
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		DoAndReturn(func(_ context.Context, _ rueidis.Completed) rueidis.RedisResult {
			if first {
				first = false
				return mock.Result(mock.RedisArray(
					mock.RedisInt64(42), // cursor=42 means more
					mock.RedisArray(mock.RedisString("winesearch:wines:1")),
				))
			}
			return mock.Result(mock.RedisArray(
				mock.RedisInt64(0), // cursor=0 means done
				mock.RedisArray(mock.RedisString("winesearch:wines:2")),
			))
		}).Times(2)

	s := NewStoreForTest(c)
	keys, err := s.Scan(context.Background(), "winesearch:wines:*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
}

// --- kv.go tests ---

func TestGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("GET", "hit")).
			Return(mock.Result(mock.RedisBlobString("payload"))),
		c.EXPECT().Do(gomock.Any(), mock.Match("GET", "miss")).
			Return(mock.Result(mock.RedisNil())),
	)

	s := NewStoreForTest(c)
	data, err := s.Get(context.Background(), "hit")
	if err != nil || string(data) != "payload" {
		t.Errorf("Get(hit) = %q, %v", data, err)
	}
	if _, err := s.Get(context.Background(), "miss"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("Get(miss) error = %v, want ErrKeyNotFound", err)
	}
}

func TestSetWithTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v", "EX", "60")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.SetWithTTL(context.Background(), "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- index.go tests ---

func TestCreateIndex_Args(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	want := "FT.CREATE winesearch:wines:idx ON HASH PREFIX 1 winesearch:wines: SCHEMA " +
		"color TAG SEPARATOR , rating NUMERIC " +
		"__vector AS vector VECTOR HNSW 10 TYPE FLOAT32 DIM 4 DISTANCE_METRIC COSINE M 16 EF_CONSTRUCTION 200"
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return strings.Join(cmd, " ") == want
		})).
		Return(mock.Result(mock.RedisString("OK")))

	idx := db.NewIndex("winesearch:wines:idx").
		Prefix("winesearch:wines:").
		TagWithOpts("color", ",", false).
		Numeric("rating").
		Vector("__vector", "vector", db.VectorSpec{
			Algo: db.VectorHNSW, Dim: 4, Distance: db.DistanceCosine, M: 16, EFConstruct: 200,
		}).
		MustBuild()

	s := NewStoreForTest(c)
	if err := s.CreateIndex(context.Background(), idx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.CREATE" })).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:   "test:idx",
		Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldTag}},
	}
	if err := s.CreateIndex(context.Background(), idx); !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestDropIndex_DeleteDocs(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("FT.DROPINDEX", "idx", "DD")).
			Return(mock.Result(mock.RedisString("OK"))),
		c.EXPECT().Do(gomock.Any(), mock.Match("FT.DROPINDEX", "idx")).
			Return(mock.Result(mock.RedisError("Unknown Index name"))),
	)

	s := NewStoreForTest(c)
	if err := s.DropIndex(context.Background(), "idx", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.DropIndex(context.Background(), "idx", false); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("FT.INFO", "idx")).
			Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("idx")))),
		c.EXPECT().Do(gomock.Any(), mock.Match("FT.INFO", "idx")).
			Return(mock.Result(mock.RedisError("Unknown Index name"))),
		c.EXPECT().Do(gomock.Any(), mock.Match("FT.INFO", "idx")).
			Return(mock.ErrorResult(context.DeadlineExceeded)),
	)

	s := NewStoreForTest(c)
	if ok, err := s.IndexExists(context.Background(), "idx"); err != nil || !ok {
		t.Errorf("existing: %v, %v", ok, err)
	}
	if ok, err := s.IndexExists(context.Background(), "idx"); err != nil || ok {
		t.Errorf("missing: %v, %v", ok, err)
	}
	if _, err := s.IndexExists(context.Background(), "idx"); !isDBError(err) {
		t.Errorf("transport error: expected db.Error, got %v", err)
	}
}

func TestBuildFieldArgs_Errors(t *testing.T) {
	if _, err := buildFieldArgs(&db.IndexField{}); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := buildFieldArgs(&db.IndexField{Name: "v", Type: db.IndexFieldVector}); err == nil {
		t.Error("expected error for zero DIM")
	}
	if _, err := buildFieldArgs(&db.IndexField{Name: "x", Type: 99}); err == nil {
		t.Error("expected error for unknown type")
	}
	if _, err := buildCreateArgs(&db.IndexDefinition{Name: "idx"}); err == nil {
		t.Error("expected error for no fields")
	}
}

// --- search.go tests ---

func TestSearchKNN_FilteredQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" &&
				cmd[1] == "idx" &&
				cmd[2] == "(@color:{red})=>[KNN 4 @vector $BLOB]" &&
				strings.Contains(strings.Join(cmd, " "), "RETURN 3 name color __vector_score LIMIT 0 4")
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("winesearch:wines:1"),
			mock.RedisArray(
				mock.RedisString("name"), mock.RedisString("Opus One"),
				mock.RedisString("__vector_score"), mock.RedisString("0.1"),
			),
		)))

	f, _ := filter.Parse(`eq("color", "red")`)
	s := NewStoreForTest(c)
	res, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName:    "idx",
		Filters:      f,
		Vector:       []float32{0.1, 0.2},
		K:            4,
		ReturnFields: []string{"name", "color"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(res.Entries))
	}
	e := res.Entries[0]
	if math.Abs(e.Score-0.9) > 1e-9 {
		t.Errorf("score = %f, want 0.9", e.Score)
	}
	if _, ok := e.Fields["__vector_score"]; ok {
		t.Error("score pseudo-field should be stripped")
	}
	if e.Fields["name"] != "Opus One" {
		t.Errorf("fields = %v", e.Fields)
	}
}

func TestSearchKNN_NoFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == "*=>[KNN 10 @vector $BLOB]"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	res, err := s.SearchKNN(context.Background(), &db.KNNQuery{IndexName: "idx", Vector: []float32{1}, K: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(res.Entries))
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	s := NewStoreForTest(nil)
	tests := []db.KNNQuery{
		{Vector: []float32{1}, K: 1},
		{IndexName: "idx", K: 1},
		{IndexName: "idx", Vector: []float32{1}},
	}
	for i := range tests {
		if _, err := s.SearchKNN(context.Background(), &tests[i]); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestSearchKNN_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{IndexName: "idx", Vector: []float32{1}, K: 1})
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestSearchFilter_SortsByKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == "@rating:[(95 +inf]" &&
				strings.Contains(strings.Join(cmd, " "), "LIMIT 0 5")
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("w:b"),
			mock.RedisArray(mock.RedisString("name"), mock.RedisString("B")),
			mock.RedisString("w:a"),
			mock.RedisArray(mock.RedisString("name"), mock.RedisString("A")),
		)))

	f, _ := filter.Parse(`gt("rating", 95)`)
	s := NewStoreForTest(c)
	res, err := s.SearchFilter(context.Background(), &db.FilterQuery{IndexName: "idx", Filters: f, Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 2 || res.Entries[0].Key != "w:a" {
		t.Errorf("entries = %+v", res.Entries)
	}
	if res.Entries[0].Score != 0 {
		t.Errorf("filter-only listings carry no score, got %f", res.Entries[0].Score)
	}
}

func TestSearchFilter_RefetchesWhenMoreMatchThanLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				return cmd[0] == "FT.SEARCH" && strings.Contains(strings.Join(cmd, " "), "LIMIT 0 1 ")
			})).
			Return(mock.Result(mock.RedisArray(
				mock.RedisInt64(3),
				mock.RedisString("w:c"),
				mock.RedisArray(mock.RedisString("name"), mock.RedisString("C")),
			))),
		c.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				return cmd[0] == "FT.SEARCH" && strings.Contains(strings.Join(cmd, " "), "LIMIT 0 3 ")
			})).
			Return(mock.Result(mock.RedisArray(
				mock.RedisInt64(3),
				mock.RedisString("w:c"),
				mock.RedisArray(mock.RedisString("name"), mock.RedisString("C")),
				mock.RedisString("w:a"),
				mock.RedisArray(mock.RedisString("name"), mock.RedisString("A")),
				mock.RedisString("w:b"),
				mock.RedisArray(mock.RedisString("name"), mock.RedisString("B")),
			))),
	)

	s := NewStoreForTest(c)
	res, err := s.SearchFilter(context.Background(), &db.FilterQuery{IndexName: "idx", Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 1 || res.Entries[0].Key != "w:a" {
		t.Errorf("entries = %+v, want first key by order", res.Entries)
	}
	if res.Total != 3 {
		t.Errorf("total = %d, want 3", res.Total)
	}
}

func TestSearchFilter_EmptyFilterUsesWildcard(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == "*"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	if _, err := s.SearchFilter(context.Background(), &db.FilterQuery{IndexName: "idx", Limit: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.SearchFilter(context.Background(), &db.FilterQuery{IndexName: "idx"}); err == nil {
		t.Error("expected error for zero limit")
	}
}

func TestSearchCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx", "*", "LIMIT", "0", "0")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(9))))

	s := NewStoreForTest(c)
	n, err := s.SearchCount(context.Background(), "idx", "*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 9 {
		t.Errorf("count = %d, want 9", n)
	}
}

func TestDistanceToSimilarity(t *testing.T) {
	tests := map[float64]float64{0: 1, 0.25: 0.75, 1: 0, 1.5: 0, -0.1: 1}
	for d, want := range tests {
		if got := DistanceToSimilarity(d); math.Abs(got-want) > 1e-9 {
			t.Errorf("DistanceToSimilarity(%v) = %v, want %v", d, got, want)
		}
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
