package postgres

import (
	"context"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/s21platform/chat-sync/internal/config"
	"github.com/s21platform/chat-sync/internal/model"
)

const journalTable = "feed_journal"

type Repository struct {
	connection *sqlx.DB
}

func New(cfg *config.Config) *Repository {
	conStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.Host, cfg.Postgres.Port)

	conn, err := sqlx.Connect("postgres", conStr)
	if err != nil {
		log.Fatal("error connect: ", err)
	}

	return &Repository{
		connection: conn,
	}
}

func NewWithDB(db *sqlx.DB) *Repository {
	return &Repository{
		connection: db,
	}
}

func (r *Repository) Close() {
	_ = r.connection.Close()
}

type journalRow struct {
	Seq   int64  `db:"seq"`
	Op    string `db:"op"`
	Path  string `db:"path"`
	Value []byte `db:"value"`
	At    int64  `db:"at"`
}

// Append records a committed feed change.
func (r *Repository) Append(ctx context.Context, change model.FeedChange) error {
	var value interface{}
	if len(change.Value) > 0 {
		value = string(change.Value)
	}

	query, args, err := sq.Insert(journalTable).
		Columns("seq", "op", "path", "value", "at").
		Values(change.Seq, change.Op, change.Path, value, change.At).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.connection.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to append feed change: %v", err)
	}

	return nil
}

// Load returns the whole journal in commit order.
func (r *Repository) Load(ctx context.Context) ([]model.FeedChange, error) {
	query, args, err := sq.Select("seq", "op", "path", "value", "at").
		From(journalTable).
		OrderBy("seq ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var rows []journalRow
	err = r.connection.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed journal: %v", err)
	}

	changes := make([]model.FeedChange, 0, len(rows))
	for _, row := range rows {
		changes = append(changes, model.FeedChange{
			Seq:   row.Seq,
			Op:    row.Op,
			Path:  row.Path,
			Value: row.Value,
			At:    row.At,
		})
	}

	return changes, nil
}
