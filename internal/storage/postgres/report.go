package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrReportNotFound is returned when a report lookup yields no results.
var ErrReportNotFound = errors.New("encounter report not found")

// Report kinds.
const (
	KindPvE = "pve"
	KindPvP = "pvp"
)

// ReportDrop is one dropped item as stored in a report.
type ReportDrop struct {
	InstanceID string `json:"instance_id"`
	ItemID     string `json:"item_id"`
	Tier       string `json:"tier"`
	Quantity   int    `json:"quantity"`
}

// EncounterReport is the persisted summary of one resolved encounter or duel.
type EncounterReport struct {
	ID         uuid.UUID
	PlayerID   string
	Kind       string
	Opponent   string
	Victory    bool
	PlayerDied bool
	Rounds     int
	Exp        int
	Gold       int
	Drops      []ReportDrop
	SkillsUsed map[string]int
	Log        []string
	// Seed is set when the encounter ran on a seeded source.
	Seed      *int64
	CreatedAt time.Time
}

// EncounterReportRepository stores encounter reports.
type EncounterReportRepository struct {
	db *pgxpool.Pool
}

// NewEncounterReportRepository creates a repository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewEncounterReportRepository(db *pgxpool.Pool) *EncounterReportRepository {
	return &EncounterReportRepository{db: db}
}

const reportColumns = `id, player_id, kind, opponent, victory, player_died, rounds, exp, gold,
	drops, skills_used, log, seed, created_at`

// Save inserts r. A zero ID is replaced with a fresh UUID.
//
// Precondition: r.PlayerID must be non-empty; r.Kind must be KindPvE or KindPvP.
// Postcondition: Returns the stored report with ID and CreatedAt set.
func (repo *EncounterReportRepository) Save(ctx context.Context, r EncounterReport) (EncounterReport, error) {
	if r.PlayerID == "" {
		return EncounterReport{}, errors.New("saving report: player id must not be empty")
	}
	if r.Kind != KindPvE && r.Kind != KindPvP {
		return EncounterReport{}, fmt.Errorf("saving report: unknown kind %q", r.Kind)
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Drops == nil {
		r.Drops = []ReportDrop{}
	}
	if r.SkillsUsed == nil {
		r.SkillsUsed = map[string]int{}
	}
	if r.Log == nil {
		r.Log = []string{}
	}

	row := repo.db.QueryRow(ctx, `
		INSERT INTO encounter_reports
			(id, player_id, kind, opponent, victory, player_died, rounds, exp, gold,
			 drops, skills_used, log, seed)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING `+reportColumns,
		r.ID, r.PlayerID, r.Kind, r.Opponent, r.Victory, r.PlayerDied, r.Rounds, r.Exp, r.Gold,
		r.Drops, r.SkillsUsed, r.Log, r.Seed,
	)
	out, err := scanReport(row)
	if err != nil {
		return EncounterReport{}, fmt.Errorf("inserting report: %w", err)
	}
	return out, nil
}

// Get retrieves a report by ID.
//
// Postcondition: Returns the report or ErrReportNotFound.
func (repo *EncounterReportRepository) Get(ctx context.Context, id uuid.UUID) (EncounterReport, error) {
	row := repo.db.QueryRow(ctx, `SELECT `+reportColumns+` FROM encounter_reports WHERE id = $1`, id)
	r, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EncounterReport{}, ErrReportNotFound
		}
		return EncounterReport{}, fmt.Errorf("querying report: %w", err)
	}
	return r, nil
}

// ListByPlayer returns up to limit reports of playerID, newest first.
//
// Precondition: limit must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (repo *EncounterReportRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]EncounterReport, error) {
	if limit < 1 {
		return nil, fmt.Errorf("listing reports: limit must be > 0, got %d", limit)
	}
	rows, err := repo.db.Query(ctx, `
		SELECT `+reportColumns+` FROM encounter_reports
		WHERE player_id = $1 ORDER BY created_at DESC, id LIMIT $2`,
		playerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	out := make([]EncounterReport, 0)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountByPlayer returns how many reports playerID has, and how many of them
// were victories.
func (repo *EncounterReportRepository) CountByPlayer(ctx context.Context, playerID string) (total, wins int, err error) {
	err = repo.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE victory)
		FROM encounter_reports WHERE player_id = $1`,
		playerID,
	).Scan(&total, &wins)
	if err != nil {
		return 0, 0, fmt.Errorf("counting reports: %w", err)
	}
	return total, wins, nil
}

func scanReport(row pgx.Row) (EncounterReport, error) {
	var r EncounterReport
	err := row.Scan(
		&r.ID, &r.PlayerID, &r.Kind, &r.Opponent, &r.Victory, &r.PlayerDied,
		&r.Rounds, &r.Exp, &r.Gold, &r.Drops, &r.SkillsUsed, &r.Log, &r.Seed, &r.CreatedAt,
	)
	return r, err
}
