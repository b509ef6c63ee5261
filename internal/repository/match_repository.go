package repository

import (
	"context"
	"errors"
	"time"

	"career-match/internal/database"
	"career-match/internal/domain/match"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrMatchNotFound = errors.New("match record not found")

// MatchRepository is the durable assessment cache, keyed by the unique
// (student_id, vacancy_id) pair. Upsert relies on that constraint so
// concurrent writers for the same pair resolve last-writer-wins.
type MatchRepository interface {
	GetByPair(ctx context.Context, studentID, vacancyID uuid.UUID) (match.Record, error)
	Upsert(ctx context.Context, rec match.Record) error
	InvalidateForStudent(ctx context.Context, studentID uuid.UUID) error
	InvalidateForVacancy(ctx context.Context, vacancyID uuid.UUID) error
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]match.Record, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

func (r *PostgresMatchRepository) GetByPair(ctx context.Context, studentID, vacancyID uuid.UUID) (match.Record, error) {
	row := r.db.QueryRow(ctx,
		`SELECT student_id, vacancy_id, match_percent, strong_skills, missing_skills,
			COALESCE(explanation, ''), cached_at
		 FROM matches
		 WHERE student_id = $1 AND vacancy_id = $2`,
		studentID, vacancyID,
	)

	var rec match.Record
	err := row.Scan(
		&rec.StudentID, &rec.VacancyID, &rec.MatchPercent,
		&rec.StrongSkills, &rec.MissingSkills, &rec.Explanation, &rec.CachedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return match.Record{}, ErrMatchNotFound
		}
		return match.Record{}, err
	}
	return rec, nil
}

func (r *PostgresMatchRepository) Upsert(ctx context.Context, rec match.Record) error {
	if rec.StudentID == uuid.Nil || rec.VacancyID == uuid.Nil {
		return nil
	}
	if rec.CachedAt.IsZero() {
		rec.CachedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO matches
			(id, student_id, vacancy_id, match_percent, strong_skills, missing_skills, explanation, cached_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (student_id, vacancy_id) DO UPDATE SET
			match_percent = EXCLUDED.match_percent,
			strong_skills = EXCLUDED.strong_skills,
			missing_skills = EXCLUDED.missing_skills,
			explanation = EXCLUDED.explanation,
			cached_at = EXCLUDED.cached_at`,
		uuid.New(), rec.StudentID, rec.VacancyID, rec.MatchPercent,
		rec.StrongSkills, rec.MissingSkills, rec.Explanation, rec.CachedAt,
	)
	return err
}

func (r *PostgresMatchRepository) InvalidateForStudent(ctx context.Context, studentID uuid.UUID) error {
	if studentID == uuid.Nil {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM matches WHERE student_id = $1`, studentID)
	return err
}

func (r *PostgresMatchRepository) InvalidateForVacancy(ctx context.Context, vacancyID uuid.UUID) error {
	if vacancyID == uuid.Nil {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM matches WHERE vacancy_id = $1`, vacancyID)
	return err
}

func (r *PostgresMatchRepository) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]match.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT student_id, vacancy_id, match_percent, strong_skills, missing_skills,
			COALESCE(explanation, ''), cached_at
		 FROM matches
		 WHERE student_id = $1
		 ORDER BY match_percent DESC, cached_at DESC`,
		studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.Record, 0)
	for rows.Next() {
		var rec match.Record
		if err := rows.Scan(
			&rec.StudentID, &rec.VacancyID, &rec.MatchPercent,
			&rec.StrongSkills, &rec.MissingSkills, &rec.Explanation, &rec.CachedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
