package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"wordbook/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const wordColumns = `id, user_id, word, meaning, part_of_speech, example, tags, familiarity, review_due, created_at`

// WordRepo implements repository.WordRepository
type WordRepo struct {
	db *sqlx.DB
}

// NewWordRepo creates a new word repository
func NewWordRepo(db *sqlx.DB) *WordRepo {
	return &WordRepo{db: db}
}

type wordRow struct {
	ID           string         `db:"id"`
	UserID       sql.NullString `db:"user_id"`
	Word         string         `db:"word"`
	Meaning      string         `db:"meaning"`
	PartOfSpeech sql.NullString `db:"part_of_speech"`
	Example      sql.NullString `db:"example"`
	Tags         pq.StringArray `db:"tags"`
	Familiarity  int            `db:"familiarity"`
	ReviewDue    sql.NullTime   `db:"review_due"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r wordRow) toDomain() domain.Word {
	w := domain.Word{
		ID:          r.ID,
		Word:        r.Word,
		Meaning:     r.Meaning,
		Tags:        []string(r.Tags),
		Familiarity: r.Familiarity,
		CreatedAt:   r.CreatedAt,
	}
	if w.Tags == nil {
		w.Tags = []string{}
	}
	if r.UserID.Valid {
		w.UserID = &r.UserID.String
	}
	if r.PartOfSpeech.Valid {
		w.PartOfSpeech = &r.PartOfSpeech.String
	}
	if r.Example.Valid {
		w.Example = &r.Example.String
	}
	if r.ReviewDue.Valid {
		w.ReviewDue = &r.ReviewDue.Time
	}
	return w
}

func toDomainList(rows []wordRow) []domain.Word {
	words := make([]domain.Word, 0, len(rows))
	for _, row := range rows {
		words = append(words, row.toDomain())
	}
	return words
}

// List returns records newest first, optionally filtered by a search term.
// The term matches word or meaning as a case-insensitive substring, or a tag exactly.
func (r *WordRepo) List(ctx context.Context, q domain.SearchQuery) ([]domain.Word, error) {
	query := `SELECT ` + wordColumns + ` FROM vocab`
	var args []any

	if q.Query != "" {
		query += ` WHERE word ILIKE $1 OR meaning ILIKE $1 OR $2 = ANY(tags)`
		args = append(args, likePattern(q.Query), q.Query)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, q.Limit)

	var rows []wordRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return toDomainList(rows), nil
}

// Create inserts a record and returns it as stored
func (r *WordRepo) Create(ctx context.Context, w domain.NewWord) (*domain.Word, error) {
	query := `
		INSERT INTO vocab (id, user_id, word, meaning, part_of_speech, example, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + wordColumns

	tags := w.Tags
	if tags == nil {
		tags = []string{}
	}

	var row wordRow
	err := r.db.GetContext(ctx, &row, query,
		w.ID, w.UserID, w.Word, w.Meaning, w.PartOfSpeech, w.Example, pq.Array(tags),
	)
	if err != nil {
		return nil, err
	}

	word := row.toDomain()
	return &word, nil
}

// Update applies the given column assignments to one record
func (r *WordRepo) Update(ctx context.Context, id string, updates []domain.FieldUpdate) (*domain.Word, error) {
	if len(updates) == 0 {
		return nil, errors.New("no fields to update")
	}

	sets := make([]string, 0, len(updates))
	args := make([]any, 0, len(updates)+1)
	for _, u := range updates {
		var value any
		switch u := u.(type) {
		case domain.SetWord:
			value = u.Value
		case domain.SetMeaning:
			value = u.Value
		case domain.SetPartOfSpeech:
			value = u.Value
		case domain.SetExample:
			value = u.Value
		case domain.SetTags:
			tags := u.Value
			if tags == nil {
				tags = []string{}
			}
			value = pq.Array(tags)
		case domain.SetFamiliarity:
			value = u.Value
		case domain.SetReviewDue:
			value = u.Value
		default:
			return nil, fmt.Errorf("unsupported field update %T", u)
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", domain.FieldName(u), len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE vocab SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), wordColumns)

	return r.getOne(ctx, query, args...)
}

// Delete removes a record
func (r *WordRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vocab WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Schedule records a review grade and the next due time
func (r *WordRepo) Schedule(ctx context.Context, id string, review domain.Review) (*domain.Word, error) {
	query := `
		UPDATE vocab
		SET familiarity = $1,
			review_due = $2
		WHERE id = $3
		RETURNING ` + wordColumns

	return r.getOne(ctx, query, review.Familiarity, review.Due, id)
}

// ListDue returns records eligible for review, never-reviewed first
func (r *WordRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Word, error) {
	query := `
		SELECT ` + wordColumns + `
		FROM vocab
		WHERE review_due IS NULL OR review_due <= $1
		ORDER BY review_due ASC NULLS FIRST, created_at ASC
		LIMIT $2
	`

	var rows []wordRow
	if err := r.db.SelectContext(ctx, &rows, query, now, limit); err != nil {
		return nil, err
	}
	return toDomainList(rows), nil
}

// Now returns the database clock, doubling as a connectivity check
func (r *WordRepo) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	err := r.db.QueryRowContext(ctx, `SELECT NOW()`).Scan(&now)
	return now, err
}

func (r *WordRepo) getOne(ctx context.Context, query string, args ...any) (*domain.Word, error) {
	var row wordRow
	err := r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	word := row.toDomain()
	return &word, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a substring pattern that treats the term literally
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
