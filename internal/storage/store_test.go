package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freewebtopdf/objcompare/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

func sampleProfile() *domain.Profile {
	p := domain.NewProfile()
	p.Fields.Set("calories", domain.FieldSettings{Percentage: floatPtr(5)})
	p.Fields.Set("items.*.name", domain.FieldSettings{TextValidation: boolPtr(true)})
	p.Fields.Set("notes", domain.FieldSettings{Ignore: boolPtr(true)})
	p.Options.NormalizeTypes = true
	return p
}

func newLoadedStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Load(context.Background()))
	return store, dir
}

func TestStore_BasicOperations(t *testing.T) {
	store, dir := newLoadedStore(t)
	ctx := context.Background()

	info, err := store.PutProfile(ctx, "nutrition", sampleProfile())
	require.NoError(t, err)
	assert.Equal(t, "nutrition", info.Name)
	assert.Equal(t, 3, info.FieldCount)
	assert.Equal(t, filepath.Join(dir, "nutrition.profile.yaml"), info.FilePath)
	assert.Len(t, info.Hash, 64)
	assert.FileExists(t, info.FilePath)

	retrieved, err := store.GetProfile(ctx, "nutrition")
	require.NoError(t, err)
	assert.Equal(t, []string{"calories", "items.*.name", "notes"}, patterns(retrieved))
	assert.True(t, retrieved.Options.NormalizeTypes)

	all, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "nutrition", all[0].Name)

	updated := sampleProfile()
	updated.Fields.Set("protein", domain.FieldSettings{Absolute: floatPtr(2)})
	info2, err := store.PutProfile(ctx, "nutrition", updated)
	require.NoError(t, err)
	assert.Equal(t, 4, info2.FieldCount)
	assert.NotEqual(t, info.Hash, info2.Hash)

	require.NoError(t, store.DeleteProfile(ctx, "nutrition"))
	assert.NoFileExists(t, info.FilePath)

	_, err = store.GetProfile(ctx, "nutrition")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store, _ := newLoadedStore(t)
	ctx := context.Background()

	_, err := store.PutProfile(ctx, "nutrition", sampleProfile())
	require.NoError(t, err)

	first, err := store.GetProfile(ctx, "nutrition")
	require.NoError(t, err)
	first.Fields.Delete("calories")

	second, err := store.GetProfile(ctx, "nutrition")
	require.NoError(t, err)
	assert.Equal(t, 3, second.Fields.Len())
}

func TestStore_Persistence(t *testing.T) {
	store, dir := newLoadedStore(t)
	ctx := context.Background()

	_, err := store.PutProfile(ctx, "alpha", sampleProfile())
	require.NoError(t, err)
	_, err = store.PutProfile(ctx, "beta", domain.NewProfile())
	require.NoError(t, err)

	reopened := NewStore(dir)
	require.NoError(t, reopened.Load(ctx))

	all, err := reopened.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Name)
	assert.Equal(t, "beta", all[1].Name)

	alpha, err := reopened.GetProfile(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"calories", "items.*.name", "notes"}, patterns(alpha))

	// The hash is stable across a write and a reload
	before, err := store.GetProfileInfo(ctx, "alpha")
	require.NoError(t, err)
	after, err := reopened.GetProfileInfo(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, before.Hash, after.Hash)
}

func TestStore_LoadReportsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.profile.yaml"), []byte("fields:\n  a:\n    percentage: 5\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.profile.yaml"), []byte("fields:\n  a:\n    percentage: 5\n    ignore: true\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.profile.json"), []byte(`{"fields": {}}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not a profile"), 0644))

	store := NewStore(dir)
	require.NoError(t, store.Load(context.Background()))

	all, err := store.ListProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "good", all[0].Name)

	loadErrors := store.GetLoadErrors()
	require.Len(t, loadErrors, 2)

	var messages []string
	for _, le := range loadErrors {
		messages = append(messages, le.Error)
	}
	assert.Contains(t, fmt.Sprint(messages), "Invalid profile configuration")
	assert.Contains(t, fmt.Sprint(messages), "duplicate profile name")

	health := store.HealthCheck(context.Background())
	assert.Equal(t, domain.HealthStatusDegraded, health.Status)
}

func TestStore_LoadCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "profiles")
	store := NewStore(dir)
	require.NoError(t, store.Load(context.Background()))
	assert.DirExists(t, dir)
}

func TestStore_LoadCancelled(t *testing.T) {
	store := NewStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Load(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsTimeout(err))
}

func TestStore_PutValidation(t *testing.T) {
	store, _ := newLoadedStore(t)
	ctx := context.Background()

	for _, name := range []string{"", "../escape", "has space", "a/b"} {
		_, err := store.PutProfile(ctx, name, sampleProfile())
		require.Error(t, err, name)
		assert.True(t, domain.IsValidationError(err), name)
	}

	invalid := domain.NewProfile()
	invalid.Fields.Set("a", domain.FieldSettings{Percentage: floatPtr(-1)})
	_, err := store.PutProfile(ctx, "invalid", invalid)
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))

	all, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_PutReplacesJSONFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "legacy.profile.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"fields": {"a": {"absolute": 1}}}`), 0644))

	store := NewStore(dir)
	ctx := context.Background()
	require.NoError(t, store.Load(ctx))

	info, err := store.PutProfile(ctx, "legacy", sampleProfile())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "legacy.profile.yaml"), info.FilePath)
	assert.NoFileExists(t, jsonPath)
}

func TestStore_DeleteMissing(t *testing.T) {
	store, _ := newLoadedStore(t)
	err := store.DeleteProfile(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestStore_Reload(t *testing.T) {
	store, dir := newLoadedStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "late.profile.yaml"), []byte("fields: {}\n"), 0644))
	_, err := store.GetProfile(ctx, "late")
	require.Error(t, err)

	require.NoError(t, store.Reload(ctx))
	_, err = store.GetProfile(ctx, "late")
	require.NoError(t, err)
}

func TestStore_HealthAndStats(t *testing.T) {
	store, dir := newLoadedStore(t)
	ctx := context.Background()

	health := store.HealthCheck(ctx)
	assert.Equal(t, domain.HealthStatusHealthy, health.Status)
	assert.Equal(t, 0, health.Details["profile_count"])

	_, err := store.PutProfile(ctx, "nutrition", sampleProfile())
	require.NoError(t, err)

	stats := store.GetStats(ctx)
	assert.Equal(t, 1, stats["profile_count"])
	assert.Equal(t, 3, stats["field_count"])
	assert.Equal(t, dir, stats["profiles_dir"])
	assert.Equal(t, 0, stats["load_errors"])

	require.NoError(t, os.RemoveAll(dir))
	health = store.HealthCheck(ctx)
	assert.Equal(t, domain.HealthStatusUnhealthy, health.Status)
}

func TestStore_ImplementsRepository(t *testing.T) {
	var _ domain.ProfileRepository = NewStore(t.TempDir())
}

// Feature: github.com/freewebtopdf/objcompare, Property 36: Stored profiles survive a reload unchanged
func TestProperty_StoredProfilesSurviveReload(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("written profiles reload with the same hash and order", prop.ForAll(
		func(percentages []float64) bool {
			dir := t.TempDir()
			ctx := context.Background()
			store := NewStore(dir)
			if err := store.Load(ctx); err != nil {
				return false
			}

			p := domain.NewProfile()
			for i, pct := range percentages {
				p.Fields.Set(fmt.Sprintf("field_%d", len(percentages)-i), domain.FieldSettings{Percentage: floatPtr(pct)})
			}
			info, err := store.PutProfile(ctx, "generated", p)
			if err != nil {
				return false
			}

			reopened := NewStore(dir)
			if err := reopened.Load(ctx); err != nil {
				return false
			}
			got, err := reopened.GetProfile(ctx, "generated")
			if err != nil {
				return false
			}
			hash, err := got.Hash()
			if err != nil || hash != info.Hash {
				return false
			}
			return fmt.Sprint(patterns(got)) == fmt.Sprint(patterns(p))
		},
		gen.SliceOfN(5, gen.Float64Range(0, 100)),
	))

	properties.TestingRun(t)
}

// Feature: github.com/freewebtopdf/objcompare, Property 37: Concurrent store access is safe
func TestProperty_ThreadSafeConcurrentAccess(t *testing.T) {
	store, _ := newLoadedStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("profile-%d", i)
			_, err := store.PutProfile(ctx, name, sampleProfile())
			assert.NoError(t, err)
			_, err = store.GetProfile(ctx, name)
			assert.NoError(t, err)
			_, err = store.ListProfiles(ctx)
			assert.NoError(t, err)
			store.GetStats(ctx)
		}(i)
	}
	wg.Wait()

	all, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func patterns(p *domain.Profile) []string {
	var out []string
	for _, e := range p.Fields.Entries() {
		out = append(out, e.Pattern)
	}
	return out
}
