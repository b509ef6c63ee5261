package repository

import (
	"context"
	"errors"
	"time"

	"career-match/internal/database"
	"career-match/internal/domain/vacancy"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrVacancyNotFound = errors.New("vacancy not found")

type VacancyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (vacancy.Vacancy, error)
	ListActive(ctx context.Context, limit int) ([]vacancy.Vacancy, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]vacancy.Vacancy, error)
	Create(ctx context.Context, v vacancy.Vacancy) (vacancy.Vacancy, error)
	Update(ctx context.Context, v vacancy.Vacancy) (vacancy.Vacancy, error)
}

type PostgresVacancyRepository struct {
	db database.DB
}

func NewPostgresVacancyRepository(db database.DB) *PostgresVacancyRepository {
	return &PostgresVacancyRepository{db: db}
}

const vacancyColumns = `id, employer_id, title, company, description, required_skills,
	required_technologies, experience_years, soft_skills, is_active, created_at, updated_at`

func (r *PostgresVacancyRepository) GetByID(ctx context.Context, id uuid.UUID) (vacancy.Vacancy, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+vacancyColumns+` FROM vacancies WHERE id = $1`, id)
	return scanVacancy(row)
}

// ListActive returns active vacancies, newest first. limit <= 0 means
// no limit (analytics scans the full active set).
func (r *PostgresVacancyRepository) ListActive(ctx context.Context, limit int) ([]vacancy.Vacancy, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+vacancyColumns+`
		 FROM vacancies
		 WHERE is_active = TRUE
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limitArg,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVacancies(rows)
}

func (r *PostgresVacancyRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]vacancy.Vacancy, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+vacancyColumns+`
		 FROM vacancies
		 WHERE employer_id = $1
		 ORDER BY created_at DESC`,
		employerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVacancies(rows)
}

func (r *PostgresVacancyRepository) Create(ctx context.Context, v vacancy.Vacancy) (vacancy.Vacancy, error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	now := time.Now().UTC()

	row := r.db.QueryRow(ctx,
		`INSERT INTO vacancies
			(id, employer_id, title, company, description, required_skills,
			 required_technologies, experience_years, soft_skills, is_active,
			 created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)
		 RETURNING `+vacancyColumns,
		v.ID, v.EmployerID, v.Title, v.Company, v.Description, v.RequiredSkills,
		v.RequiredTechnologies, v.ExperienceYears, v.SoftSkills, v.IsActive, now,
	)
	return scanVacancy(row)
}

func (r *PostgresVacancyRepository) Update(ctx context.Context, v vacancy.Vacancy) (vacancy.Vacancy, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE vacancies SET
			title = $2,
			company = $3,
			description = $4,
			required_skills = $5,
			required_technologies = $6,
			experience_years = $7,
			soft_skills = $8,
			is_active = $9,
			updated_at = $10
		 WHERE id = $1
		 RETURNING `+vacancyColumns,
		v.ID, v.Title, v.Company, v.Description, v.RequiredSkills,
		v.RequiredTechnologies, v.ExperienceYears, v.SoftSkills, v.IsActive,
		time.Now().UTC(),
	)
	return scanVacancy(row)
}

func scanVacancy(row database.Row) (vacancy.Vacancy, error) {
	var v vacancy.Vacancy
	err := row.Scan(
		&v.ID, &v.EmployerID, &v.Title, &v.Company, &v.Description,
		&v.RequiredSkills, &v.RequiredTechnologies, &v.ExperienceYears,
		&v.SoftSkills, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vacancy.Vacancy{}, ErrVacancyNotFound
		}
		return vacancy.Vacancy{}, err
	}
	return v, nil
}

func collectVacancies(rows database.Rows) ([]vacancy.Vacancy, error) {
	out := make([]vacancy.Vacancy, 0)
	for rows.Next() {
		var v vacancy.Vacancy
		if err := rows.Scan(
			&v.ID, &v.EmployerID, &v.Title, &v.Company, &v.Description,
			&v.RequiredSkills, &v.RequiredTechnologies, &v.ExperienceYears,
			&v.SoftSkills, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
