package usecase

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"career-match/internal/repository"
)

type SkillDemand struct {
	Name          string `json:"name"`
	Count         int    `json:"count"`
	DemandPercent int    `json:"demand_percent"`
}

type SkillCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type TopSkillsReport struct {
	TotalVacanciesAnalyzed int           `json:"total_vacancies_analyzed"`
	TopTechnologies        []SkillDemand `json:"top_technologies"`
	TopSkills              []SkillDemand `json:"top_skills"`
}

type ReadinessBand struct {
	Count   int `json:"count"`
	Percent int `json:"percent"`
}

type ReadinessReport struct {
	TotalStudents            int           `json:"total_students"`
	AverageProfileCompletion float64       `json:"average_profile_completion"`
	Low                      ReadinessBand `json:"low_under_40_percent"`
	Medium                   ReadinessBand `json:"medium_40_70_percent"`
	High                     ReadinessBand `json:"high_over_70_percent"`
	TopStudentTechnologies   []SkillCount  `json:"top_student_technologies"`
	TopSpecialties           []SkillCount  `json:"top_specialties"`
}

type TechnologyGap struct {
	Technology  string  `json:"technology"`
	DemandCount int     `json:"demand_count"`
	SupplyCount int     `json:"supply_count"`
	GapRatio    float64 `json:"gap_ratio"`
	Status      string  `json:"status"`
}

type TrendsReport struct {
	TotalActiveVacancies    int             `json:"total_active_vacancies"`
	TotalStudentProfiles    int             `json:"total_student_profiles"`
	TechnologyGaps          []TechnologyGap `json:"technology_gap_analysis"`
	ExperienceDemand        map[string]int  `json:"experience_demand_distribution"`
	MostDemanded            []SkillCount    `json:"most_demanded_technologies"`
	MostCommonStudentSkills []SkillCount    `json:"most_common_student_technologies"`
}

type AnalyticsUsecase interface {
	TopSkills(ctx context.Context, limit int) (TopSkillsReport, error)
	Readiness(ctx context.Context, specialty string) (ReadinessReport, error)
	Trends(ctx context.Context) (TrendsReport, error)
}

type Analytics struct {
	students  repository.StudentRepository
	vacancies repository.VacancyRepository
	cache     ResultCache
	cacheTTL  time.Duration
	logger    *log.Logger
}

func NewAnalyticsUsecase(
	students repository.StudentRepository,
	vacancies repository.VacancyRepository,
	cache ResultCache,
	cacheTTL time.Duration,
	logger *log.Logger,
) *Analytics {
	if logger == nil {
		logger = log.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Analytics{students: students, vacancies: vacancies, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (a *Analytics) TopSkills(ctx context.Context, limit int) (TopSkillsReport, error) {
	if limit < 5 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	key := analyticsCacheKey("top-skills", "", limit)
	var cached TopSkillsReport
	if a.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	vacancies, err := a.vacancies.ListActive(ctx, 0)
	if err != nil {
		return TopSkillsReport{}, ErrInternal
	}

	techs := newCounter()
	skills := newCounter()
	for _, v := range vacancies {
		for _, t := range v.RequiredTechnologies {
			techs.add(t)
		}
		for _, s := range v.RequiredSkills {
			skills.add(s)
		}
		for _, s := range v.SoftSkills {
			skills.add(s)
		}
	}

	total := len(vacancies)
	report := TopSkillsReport{
		TotalVacanciesAnalyzed: total,
		TopTechnologies:        demandList(techs.mostCommon(limit), total),
		TopSkills:              demandList(skills.mostCommon(limit), total),
	}

	a.cacheSet(ctx, key, report)
	return report, nil
}

func (a *Analytics) Readiness(ctx context.Context, specialty string) (ReadinessReport, error) {
	key := analyticsCacheKey("readiness", specialty, 0)
	var cached ReadinessReport
	if a.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	students, err := a.students.ListWithMinCompletion(ctx, 0)
	if err != nil {
		return ReadinessReport{}, ErrInternal
	}

	specialty = strings.ToLower(strings.TrimSpace(specialty))

	var (
		total, low, medium, high int
		completionSum            int
	)
	techs := newCounter()
	specialties := newCounter()

	for _, s := range students {
		if specialty != "" && !strings.Contains(strings.ToLower(s.Specialty), specialty) {
			continue
		}
		total++
		completionSum += s.ProfileCompletion
		switch {
		case s.ProfileCompletion < 40:
			low++
		case s.ProfileCompletion <= 70:
			medium++
		default:
			high++
		}
		for _, t := range s.Technologies {
			techs.add(t)
		}
		if s.Specialty != "" {
			specialties.add(s.Specialty)
		}
	}

	report := ReadinessReport{
		TotalStudents:          total,
		TopStudentTechnologies: countList(techs.mostCommon(15)),
		TopSpecialties:         countList(specialties.mostCommon(10)),
	}
	if total > 0 {
		report.AverageProfileCompletion = roundTo1(float64(completionSum) / float64(total))
		report.Low = ReadinessBand{Count: low, Percent: pct(low, total)}
		report.Medium = ReadinessBand{Count: medium, Percent: pct(medium, total)}
		report.High = ReadinessBand{Count: high, Percent: pct(high, total)}
	}

	a.cacheSet(ctx, key, report)
	return report, nil
}

func (a *Analytics) Trends(ctx context.Context) (TrendsReport, error) {
	key := analyticsCacheKey("trends", "", 0)
	var cached TrendsReport
	if a.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	vacancies, err := a.vacancies.ListActive(ctx, 0)
	if err != nil {
		return TrendsReport{}, ErrInternal
	}
	students, err := a.students.ListWithMinCompletion(ctx, 0)
	if err != nil {
		return TrendsReport{}, ErrInternal
	}

	demand := newCounter()
	expDemand := map[string]int{}
	for _, v := range vacancies {
		for _, t := range v.RequiredTechnologies {
			demand.add(t)
		}
		expDemand[experienceBand(v.ExperienceYears)]++
	}

	supply := newCounter()
	for _, s := range students {
		for _, t := range s.Technologies {
			supply.add(t)
		}
	}

	gaps := make([]TechnologyGap, 0, 30)
	for _, entry := range demand.mostCommon(30) {
		supplyCount := supply.count(entry.name)
		denom := supplyCount
		if denom < 1 {
			denom = 1
		}
		ratio := float64(entry.count) / float64(denom)
		gaps = append(gaps, TechnologyGap{
			Technology:  entry.name,
			DemandCount: entry.count,
			SupplyCount: supplyCount,
			GapRatio:    roundTo2(ratio),
			Status:      gapStatus(ratio),
		})
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].GapRatio != gaps[j].GapRatio {
			return gaps[i].GapRatio > gaps[j].GapRatio
		}
		return gaps[i].Technology < gaps[j].Technology
	})
	if len(gaps) > 20 {
		gaps = gaps[:20]
	}

	report := TrendsReport{
		TotalActiveVacancies:    len(vacancies),
		TotalStudentProfiles:    len(students),
		TechnologyGaps:          gaps,
		ExperienceDemand:        expDemand,
		MostDemanded:            countList(demand.mostCommon(10)),
		MostCommonStudentSkills: countList(supply.mostCommon(10)),
	}

	a.cacheSet(ctx, key, report)
	return report, nil
}

func (a *Analytics) cacheGet(ctx context.Context, key string, out any) bool {
	if a.cache == nil {
		return false
	}
	hit, err := a.cache.GetJSON(ctx, key, out)
	if err != nil {
		a.logger.Printf("[Analytics] cache read failed key=%s err=%v", key, err)
		return false
	}
	return hit
}

func (a *Analytics) cacheSet(ctx context.Context, key string, value any) {
	if a.cache == nil {
		return
	}
	if err := a.cache.SetJSON(ctx, key, value, a.cacheTTL); err != nil {
		a.logger.Printf("[Analytics] cache write failed key=%s err=%v", key, err)
	}
}

func experienceBand(years int) string {
	switch {
	case years == 0:
		return "no_experience"
	case years <= 1:
		return "junior_up_to_1_year"
	case years <= 3:
		return "middle_1_3_years"
	default:
		return "senior_3_plus_years"
	}
}

func gapStatus(ratio float64) string {
	switch {
	case ratio > 2:
		return "deficit"
	case ratio > 0.5:
		return "balanced"
	default:
		return "surplus"
	}
}

func demandList(entries []counterEntry, total int) []SkillDemand {
	out := make([]SkillDemand, 0, len(entries))
	for _, e := range entries {
		out = append(out, SkillDemand{
			Name:          e.name,
			Count:         e.count,
			DemandPercent: pct(e.count, total),
		})
	}
	return out
}

func countList(entries []counterEntry) []SkillCount {
	out := make([]SkillCount, 0, len(entries))
	for _, e := range entries {
		out = append(out, SkillCount{Name: e.name, Count: e.count})
	}
	return out
}

func pct(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(part)/float64(total)*100 + 0.5)
}

func roundTo1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func roundTo2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// counter tallies case-insensitively while reporting the first-seen
// casing, with deterministic most-common ordering.
type counter struct {
	counts map[string]int
	names  map[string]string
}

type counterEntry struct {
	name  string
	count int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}, names: map[string]string{}}
}

func (c *counter) add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	if _, ok := c.names[key]; !ok {
		c.names[key] = name
	}
	c.counts[key]++
}

func (c *counter) count(name string) int {
	return c.counts[strings.ToLower(strings.TrimSpace(name))]
}

func (c *counter) mostCommon(n int) []counterEntry {
	entries := make([]counterEntry, 0, len(c.counts))
	for key, count := range c.counts {
		entries = append(entries, counterEntry{name: c.names[key], count: count})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}
