package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/domain"
)

func newMockRepo(t *testing.T) (*ToolRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewToolRepository(db, zap.NewNop()), mock
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS catalog_tools")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAllWritesInOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	tools := []domain.Tool{
		{ID: "a", Name: "Writer", Category: domain.CategoryText, AffiliateLink: "#", PriceModel: domain.PricePaid,
			Rating: 4.5, MonthlyVisits: "1M", ImageURL: "img", Features: []string{"SEO"}, Offer: domain.StringPtr("10% off")},
		{ID: "b", Name: "Painter", Category: domain.CategoryImage, AffiliateLink: "#", PriceModel: domain.PriceFree,
			ImageURL: "img"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM catalog_tools")).WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO catalog_tools")).
		WithArgs("a", 0, "Writer", "", "Text & Copywriting", "#", "Paid", 4.5, "1M", "img", `["SEO"]`, "10% off").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO catalog_tools")).
		WithArgs("b", 1, "Painter", "", "Image Generation", "#", "Free", 0.0, "", "img", `[]`, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceAll(context.Background(), tools))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAllRollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM catalog_tools")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO catalog_tools")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.ReplaceAll(context.Background(), []domain.Tool{{ID: "a", Name: "A"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadAll(t *testing.T) {
	repo, mock := newMockRepo(t)
	columns := []string{"id", "name", "description", "category", "affiliate_link", "price_model",
		"rating", "monthly_visits", "image_url", "features", "offer"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog_tools")).WillReturnRows(
		sqlmock.NewRows(columns).
			AddRow("a", "Writer", "Drafts", "Text & Copywriting", "#", "Paid", 4.5, "1M", "img", []byte(`["SEO"]`), "10% off").
			AddRow("b", "Painter", "", "Image Generation", "#", "Free", 3.0, "N/A", "img", []byte(`[]`), nil),
	)

	tools, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)

	assert.Equal(t, "a", tools[0].ID)
	assert.Equal(t, domain.CategoryText, tools[0].Category)
	assert.Equal(t, []string{"SEO"}, tools[0].Features)
	require.NotNil(t, tools[0].Offer)
	assert.Equal(t, "10% off", *tools[0].Offer)

	assert.Equal(t, domain.PriceFree, tools[1].PriceModel)
	assert.Nil(t, tools[1].Offer)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadAllQueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog_tools")).WillReturnError(errors.New("connection reset"))

	_, err := repo.LoadAll(context.Background())
	assert.Error(t, err)
}

func TestPostgresConfig(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "hub"}
	assert.True(t, cfg.Enabled())
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=hub sslmode=disable", cfg.DSN())
	assert.False(t, PostgresConfig{}.Enabled())
}
