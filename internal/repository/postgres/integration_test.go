//go:build integration

package postgres

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"wordbook/internal/domain"
	"wordbook/internal/testutil"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationsFolder = "../../../migrations"

var testDB *sqlx.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	pg, err := testutil.StartPostgres(ctx)
	if err != nil {
		log.Fatal(err)
	}

	testDB, err = pg.Open()
	if err != nil {
		_ = pg.Terminate(ctx)
		log.Fatal("failed to connect to postgres:", err)
	}

	code := m.Run()

	testDB.Close()
	_ = pg.Terminate(ctx)
	os.Exit(code)
}

func createWord(t *testing.T, repo *WordRepo, word, meaning string, tags ...string) *domain.Word {
	t.Helper()
	w, err := repo.Create(testContext(t), domain.NewWord{
		ID:      uuid.NewString(),
		Word:    word,
		Meaning: meaning,
		Tags:    tags,
	})
	require.NoError(t, err)
	return w
}

func TestIntegration_WordLifecycle(t *testing.T) {
	testutil.ResetSchema(t, testDB, migrationsFolder)
	repo := NewWordRepo(testDB)
	ctx := testContext(t)

	w := createWord(t, repo, "cat", "고양이", "pets")
	assert.Equal(t, 0, w.Familiarity)
	assert.Nil(t, w.ReviewDue)
	assert.Equal(t, []string{"pets"}, w.Tags)
	assert.False(t, w.CreatedAt.IsZero())

	updated, err := repo.Update(ctx, w.ID, []domain.FieldUpdate{
		domain.SetMeaning{Value: "cat (animal)"},
		domain.SetExample{Value: testutil.Ptr("The cat sleeps.")},
		domain.SetTags{Value: nil},
	})
	require.NoError(t, err)
	assert.Equal(t, "cat (animal)", updated.Meaning)
	require.NotNil(t, updated.Example)
	assert.Equal(t, "The cat sleeps.", *updated.Example)
	assert.Equal(t, []string{}, updated.Tags)

	now, err := repo.Now(ctx)
	require.NoError(t, err)

	review := domain.ScheduleReview(now, 3)
	scheduled, err := repo.Schedule(ctx, w.ID, review)
	require.NoError(t, err)
	assert.Equal(t, 3, scheduled.Familiarity)
	require.NotNil(t, scheduled.ReviewDue)
	assert.WithinDuration(t, review.Due, *scheduled.ReviewDue, time.Millisecond)

	require.NoError(t, repo.Delete(ctx, w.ID))
	assert.ErrorIs(t, repo.Delete(ctx, w.ID), domain.ErrNotFound)

	_, err = repo.Update(ctx, w.ID, []domain.FieldUpdate{domain.SetWord{Value: "x"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Schedule(ctx, w.ID, review)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntegration_List(t *testing.T) {
	testutil.ResetSchema(t, testDB, migrationsFolder)
	repo := NewWordRepo(testDB)
	ctx := testContext(t)

	createWord(t, repo, "Catalog", "목록")
	createWord(t, repo, "dog", "개", "pets")
	createWord(t, repo, "100%", "백 퍼센트")

	tests := []struct {
		name     string
		query    domain.SearchQuery
		expected []string
	}{
		{name: "all newest first", query: domain.SearchQuery{Limit: 10}, expected: []string{"100%", "dog", "Catalog"}},
		{name: "limit", query: domain.SearchQuery{Limit: 1}, expected: []string{"100%"}},
		{name: "word substring, case-insensitive", query: domain.SearchQuery{Query: "cat", Limit: 10}, expected: []string{"Catalog"}},
		{name: "meaning substring", query: domain.SearchQuery{Query: "목", Limit: 10}, expected: []string{"Catalog"}},
		{name: "exact tag", query: domain.SearchQuery{Query: "pets", Limit: 10}, expected: []string{"dog"}},
		{name: "partial tag is no match", query: domain.SearchQuery{Query: "pet", Limit: 10}, expected: []string{}},
		{name: "wildcards are literal", query: domain.SearchQuery{Query: "0%", Limit: 10}, expected: []string{"100%"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, err := repo.List(ctx, tt.query)
			require.NoError(t, err)

			got := make([]string, 0, len(words))
			for _, w := range words {
				got = append(got, w.Word)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIntegration_ListDue(t *testing.T) {
	testutil.ResetSchema(t, testDB, migrationsFolder)
	repo := NewWordRepo(testDB)
	ctx := testContext(t)

	now, err := repo.Now(ctx)
	require.NoError(t, err)

	fresh := createWord(t, repo, "fresh", "새로운")
	overdue := createWord(t, repo, "overdue", "기한 지난")
	later := createWord(t, repo, "later", "나중에")

	_, err = repo.Schedule(ctx, overdue.ID, domain.Review{Familiarity: 1, Due: now.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = repo.Schedule(ctx, later.ID, domain.Review{Familiarity: 5, Due: now.Add(14 * 24 * time.Hour)})
	require.NoError(t, err)

	words, err := repo.ListDue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, fresh.ID, words[0].ID)
	assert.Equal(t, overdue.ID, words[1].ID)
}

func TestIntegration_BotUsers(t *testing.T) {
	testutil.ResetSchema(t, testDB, migrationsFolder)
	repo := NewBotUserRepo(testDB)
	ctx := testContext(t)

	u, err := repo.GetBotUser(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, repo.SaveBotUser(ctx, domain.BotUser{ChatID: 42, Email: "a@b.com", Token: "t1"}))
	require.NoError(t, repo.SaveBotUser(ctx, domain.BotUser{ChatID: 42, Email: "a@b.com", Token: "t2"}))

	u, err = repo.GetBotUser(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "t2", u.Token)

	require.NoError(t, repo.DeleteBotUser(ctx, 42))
	u, err = repo.GetBotUser(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, u)
}

// testContext returns a context canceled when the test finishes
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
