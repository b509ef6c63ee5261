package repository

import (
	"context"
	"errors"
	"time"

	"career-match/internal/database"
	"career-match/internal/domain/student"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrStudentNotFound = errors.New("student profile not found")

type StudentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (student.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (student.Profile, error)
	Upsert(ctx context.Context, p student.Profile) (student.Profile, error)
	ListWithMinCompletion(ctx context.Context, minCompletion int) ([]student.Profile, error)
	AppendSkillSnapshot(ctx context.Context, studentID uuid.UUID, skills []string) error
}

type PostgresStudentRepository struct {
	db database.DB
}

func NewPostgresStudentRepository(db database.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

const studentColumns = `id, user_id, name, university, specialty, skills, technologies,
	COALESCE(experience_text, ''), COALESCE(github_url, ''), COALESCE(resume_url, ''),
	career_interests, profile_completion, created_at, updated_at`

func (r *PostgresStudentRepository) GetByID(ctx context.Context, id uuid.UUID) (student.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM student_profiles WHERE id = $1`, id)
	return scanStudent(row)
}

func (r *PostgresStudentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (student.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM student_profiles WHERE user_id = $1`, userID)
	return scanStudent(row)
}

func (r *PostgresStudentRepository) Upsert(ctx context.Context, p student.Profile) (student.Profile, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()

	row := r.db.QueryRow(ctx,
		`INSERT INTO student_profiles
			(id, user_id, name, university, specialty, skills, technologies,
			 experience_text, github_url, resume_url, career_interests,
			 profile_completion, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)
		 ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			university = EXCLUDED.university,
			specialty = EXCLUDED.specialty,
			skills = EXCLUDED.skills,
			technologies = EXCLUDED.technologies,
			experience_text = EXCLUDED.experience_text,
			github_url = EXCLUDED.github_url,
			resume_url = EXCLUDED.resume_url,
			career_interests = EXCLUDED.career_interests,
			profile_completion = EXCLUDED.profile_completion,
			updated_at = EXCLUDED.updated_at
		 RETURNING `+studentColumns,
		p.ID, p.UserID, p.Name, p.University, p.Specialty, p.Skills, p.Technologies,
		nullIfEmpty(p.ExperienceText), nullIfEmpty(p.GitHubURL), nullIfEmpty(p.ResumeURL),
		p.CareerInterests, p.ProfileCompletion, now,
	)
	return scanStudent(row)
}

func (r *PostgresStudentRepository) ListWithMinCompletion(ctx context.Context, minCompletion int) ([]student.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+studentColumns+`
		 FROM student_profiles
		 WHERE profile_completion >= $1
		 ORDER BY created_at ASC`,
		minCompletion,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]student.Profile, 0)
	for rows.Next() {
		p, err := scanStudentFromRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresStudentRepository) AppendSkillSnapshot(ctx context.Context, studentID uuid.UUID, skills []string) error {
	if studentID == uuid.Nil {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO skill_history (id, student_id, skills, snapshot_at)
		 VALUES ($1, $2, $3, $4)`,
		uuid.New(), studentID, skills, time.Now().UTC(),
	)
	return err
}

func scanStudent(row database.Row) (student.Profile, error) {
	var p student.Profile
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.University, &p.Specialty,
		&p.Skills, &p.Technologies, &p.ExperienceText, &p.GitHubURL, &p.ResumeURL,
		&p.CareerInterests, &p.ProfileCompletion, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return student.Profile{}, ErrStudentNotFound
		}
		return student.Profile{}, err
	}
	return p, nil
}

func scanStudentFromRows(rows database.Rows) (student.Profile, error) {
	var p student.Profile
	err := rows.Scan(
		&p.ID, &p.UserID, &p.Name, &p.University, &p.Specialty,
		&p.Skills, &p.Technologies, &p.ExperienceText, &p.GitHubURL, &p.ResumeURL,
		&p.CareerInterests, &p.ProfileCompletion, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return student.Profile{}, err
	}
	return p, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
