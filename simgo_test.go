package simgo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/simgo/measure"
	"github.com/hupe1980/simgo/ngram"
	"github.com/hupe1980/simgo/testutil"
)

var thresholds = []float64{1, 0.9, 0.8, 0.7, 0.6, 0.5, 0.3, 0.1}

func buildIndex(t *testing.T, path string, corpus []string, optFns ...Option) {
	t.Helper()

	w, err := Create(path, optFns...)
	require.NoError(t, err)
	for _, s := range corpus {
		require.NoError(t, w.Insert(s))
	}
	require.NoError(t, w.Finalize(context.Background()))
	require.NoError(t, w.Close())
}

func openIndex(t *testing.T, corpus []string, optFns ...Option) *Reader {
	t.Helper()

	path := filepath.Join(t.TempDir(), "names.sim")
	buildIndex(t, path, corpus, optFns...)

	r, err := Open(path, optFns...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestDiceScenario(t *testing.T) {
	r := openIndex(t, []string{"abcde", "abcdf", "xyz"}, WithNgramSize(3))

	got, err := r.Retrieve(context.Background(), "abcde", Dice, 0.6)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"abcde", "abcdf"}, got)
}

func TestUnicodeCosine(t *testing.T) {
	const s = "東京都渋谷区"

	for _, unit := range []Unit{RuneUnit, ByteUnit} {
		t.Run(unit.String(), func(t *testing.T) {
			r := openIndex(t, []string{s, "大阪府大阪市", "abc"}, WithUnit(unit))

			got, err := r.Retrieve(context.Background(), s, Cosine, 0.6)
			require.NoError(t, err)
			assert.Equal(t, []string{s}, got)
		})
	}
}

func TestExactIsReflexive(t *testing.T) {
	rng := testutil.NewRNG(7)
	corpus := rng.Corpus(200, testutil.LowerASCII, 0, 12)
	r := openIndex(t, corpus, WithPadding(true))

	ctx := context.Background()
	for _, s := range corpus[:50] {
		got, err := r.Retrieve(ctx, s, Exact, 0.5)
		require.NoError(t, err)
		assert.Contains(t, got, s)
	}
}

func TestDuplicatesArePreserved(t *testing.T) {
	r := openIndex(t, []string{"abc", "abc", "abd"})

	got, err := r.Retrieve(context.Background(), "abc", Exact, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "abc"}, got)
}

func TestEmptyStrings(t *testing.T) {
	r := openIndex(t, []string{"", "ab", "abc", ""})
	ctx := context.Background()

	// "ab" is right-padded to one gram; "" has no grams without padding.
	got, err := r.Retrieve(ctx, "", Exact, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"", ""}, got)

	got, err = r.Retrieve(ctx, "", Jaccard, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []string{"", ""}, got)

	got, err = r.Retrieve(ctx, "abc", Cosine, 0.1)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, got)
}

func TestRoundTripMatchesBuildState(t *testing.T) {
	configs := []struct {
		name  string
		opts  []Option
		alpha []rune
	}{
		{"bytes-n3", []Option{WithNgramSize(3)}, testutil.Small},
		{"bytes-n2-pad-zstd", []Option{WithNgramSize(2), WithPadding(true), WithCompression(CompressionZSTD)}, testutil.LowerASCII},
		{"runes-n2-pad", []Option{WithNgramSize(2), WithPadding(true), WithUnit(RuneUnit)}, testutil.MultiByte},
		{"bytes-n1-raw", []Option{WithNgramSize(1), WithCompression(CompressionNone)}, testutil.Small},
	}

	ctx := context.Background()
	for _, cfg := range configs {
		t.Run(cfg.name, func(t *testing.T) {
			rng := testutil.NewRNG(42)
			corpus := rng.Corpus(300, cfg.alpha, 0, 10)

			path := filepath.Join(t.TempDir(), "names.sim")
			w, err := Create(path, cfg.opts...)
			require.NoError(t, err)
			for _, s := range corpus {
				require.NoError(t, w.Insert(s))
			}

			o := applyOptions(cfg.opts)
			gen, err := ngram.New(o.n, o.padding, o.unit)
			require.NoError(t, err)

			queries := make([]string, 0, 20)
			for i := range 10 {
				queries = append(queries, corpus[i*7], rng.Mutate(corpus[i*11], cfg.alpha, 1))
			}

			type key struct {
				q string
				m Measure
				t float64
			}
			before := make(map[key][]string)
			for _, q := range queries {
				for _, m := range measure.All {
					for _, th := range thresholds {
						got, err := w.Retrieve(ctx, q, m, th)
						require.NoError(t, err)
						want := testutil.BruteForce(gen, corpus, q, m, th)
						require.Equal(t, want, testutil.Sorted(got), "q=%q m=%s t=%v", q, m, th)
						before[key{q, m, th}] = got
					}
				}
			}

			require.NoError(t, w.Finalize(ctx))

			r, err := Open(path)
			require.NoError(t, err)
			defer r.Close()

			for k, want := range before {
				got, err := r.Retrieve(ctx, k.q, k.m, k.t)
				require.NoError(t, err)
				assert.Equal(t, testutil.Sorted(want), testutil.Sorted(got), "q=%q m=%s t=%v", k.q, k.m, k.t)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	r := openIndex(t, []string{"a", "abcd", "abcdef", "xyzxyz"},
		WithNgramSize(2), WithPadding(true), WithUnit(RuneUnit), WithCompression(CompressionZSTD))

	info := r.Info()
	assert.Equal(t, uint32(1), info.Version)
	assert.Equal(t, 2, info.N)
	assert.True(t, info.Padding)
	assert.Equal(t, RuneUnit, info.Unit)
	assert.Equal(t, CompressionZSTD, info.Compression)
	assert.Equal(t, 4, info.Records)
	assert.Equal(t, []int{2, 5, 7}, info.BucketSizes)
}

func TestInvalidArguments(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "x.sim"), WithNgramSize(0))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = Create(filepath.Join(t.TempDir(), "x.sim"), WithUnit(Unit(9)))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = Create(filepath.Join(t.TempDir(), "x.sim"), WithCompression(Compression(9)))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	r := openIndex(t, []string{"abc"})
	ctx := context.Background()

	_, err = r.Retrieve(ctx, "abc", Measure(42), 0.5)
	assert.ErrorIs(t, err, ErrInvalidMeasure)

	for _, th := range []float64{0, -0.1, 1.5} {
		_, err = r.Retrieve(ctx, "abc", Cosine, th)
		assert.ErrorIs(t, err, ErrInvalidThreshold, "threshold %v", th)

		_, err = r.Check(ctx, "abc", Cosine, th)
		assert.ErrorIs(t, err, ErrInvalidThreshold, "threshold %v", th)
	}

	_, err = ParseMeasure("levenshtein")
	assert.ErrorIs(t, err, ErrInvalidMeasure)

	m, err := ParseMeasure("jaccard")
	require.NoError(t, err)
	assert.Equal(t, Jaccard, m)
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	r := openIndex(t, []string{"abcde", "abcdf", "xyz"})
	found, err := r.Check(ctx, "abcdx", Dice, 0.5)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = r.Check(ctx, "qqqqq", Dice, 0.5)
	require.NoError(t, err)
	assert.False(t, found)

	ru := openIndex(t, []string{"日本語"}, WithUnit(RuneUnit))
	_, err = ru.Check(ctx, "日本語", Exact, 1)
	assert.ErrorIs(t, err, ErrUnsupportedForEncoding)
}

func TestRetrieveBatch(t *testing.T) {
	rng := testutil.NewRNG(3)
	corpus := rng.Corpus(200, testutil.Small, 1, 8)
	r := openIndex(t, corpus, WithMaxConcurrentQueries(3))
	ctx := context.Background()

	queries := corpus[:25]
	got, err := r.RetrieveBatch(ctx, queries, Overlap, 0.8)
	require.NoError(t, err)
	require.Len(t, got, len(queries))

	for i, q := range queries {
		want, err := r.Retrieve(ctx, q, Overlap, 0.8)
		require.NoError(t, err)
		assert.Equal(t, want, got[i])
	}

	_, err = r.RetrieveBatch(ctx, queries, Overlap, 2)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestConcurrentReaders(t *testing.T) {
	rng := testutil.NewRNG(11)
	corpus := rng.Corpus(500, testutil.LowerASCII, 2, 14)

	// A tiny cache forces evictions and concurrent reloads.
	r := openIndex(t, corpus, WithCacheBytes(4<<10))
	ctx := context.Background()

	gen, err := ngram.New(DefaultNgramSize, false, ByteUnit)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for g := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 20 {
				q := corpus[(g*31+i*17)%len(corpus)]
				got, err := r.Retrieve(ctx, q, Cosine, 0.6)
				if err != nil {
					errs <- err
					return
				}
				want := testutil.BruteForce(gen, corpus, q, Cosine, 0.6)
				if fmt.Sprint(want) != fmt.Sprint(testutil.Sorted(got)) {
					errs <- fmt.Errorf("query %q: got %v, want %v", q, got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestReaderClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.sim")
	buildIndex(t, path, []string{"abc"})

	r, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = r.Retrieve(context.Background(), "abc", Exact, 1)
	assert.ErrorIs(t, err, ErrReaderClosed)

	_, err = r.Check(context.Background(), "abc", Exact, 1)
	assert.ErrorIs(t, err, ErrReaderClosed)
}

func TestRetrieveCanceled(t *testing.T) {
	r := openIndex(t, []string{"abcde", "abcdf"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Retrieve(ctx, "abcde", Dice, 0.5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIOLimitedBuild(t *testing.T) {
	rng := testutil.NewRNG(5)
	corpus := rng.Corpus(100, testutil.LowerASCII, 3, 10)
	r := openIndex(t, corpus, WithIOLimit(1<<20))

	got, err := r.Retrieve(context.Background(), corpus[0], Exact, 1)
	require.NoError(t, err)
	assert.Contains(t, got, corpus[0])
}

func TestMetricsCollector(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	r := openIndex(t, []string{"abcde", "abcdf", "xyz"}, WithMetricsCollector(metrics))
	ctx := context.Background()

	for range 2 {
		_, err := r.Retrieve(ctx, "abcde", Dice, 0.6)
		require.NoError(t, err)
	}
	_, err := r.Check(ctx, "xyz", Exact, 1)
	require.NoError(t, err)
	_, err = r.Retrieve(ctx, "abcde", Dice, 7)
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(3), stats.InsertCount)
	assert.Equal(t, int64(1), stats.FinalizeCount)
	assert.Positive(t, stats.FinalizeBytes)
	assert.Equal(t, int64(3), stats.RetrieveCount)
	assert.Equal(t, int64(1), stats.RetrieveErrors)
	assert.Equal(t, int64(4), stats.RetrieveResults)
	assert.Equal(t, int64(1), stats.CheckCount)
	assert.Equal(t, int64(1), stats.CheckFound)
	// Bucket 3 is loaded once and then served from the cache; the check
	// loads bucket 1.
	assert.Equal(t, int64(2), stats.BucketLoads)
	assert.Equal(t, int64(1), stats.BucketCacheHits)
}

func TestOpenNotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.sim"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
