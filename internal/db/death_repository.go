package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DeathRepository stores agent deaths per simulation session.
type DeathRepository struct {
	pool *pgxpool.Pool
}

// NewDeathRepository creates a new DeathRepository.
func NewDeathRepository(pool *pgxpool.Pool) *DeathRepository {
	return &DeathRepository{pool: pool}
}

// DeathRow represents a row of the agent_deaths table.
type DeathRow struct {
	ID        int64
	SessionID uuid.UUID
	AgentID   uint32
	Faction   string
	Archetype string
	PosX      float64
	PosY      float64
	PosZ      float64
	DiedAt    time.Time
}

const insertDeath = `INSERT INTO agent_deaths
	(session_id, agent_id, faction, archetype, pos_x, pos_y, pos_z, died_at)
	VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)`

func deathArgs(row DeathRow) []any {
	return []any{
		row.SessionID.String(), int64(row.AgentID), row.Faction, row.Archetype,
		row.PosX, row.PosY, row.PosZ, row.DiedAt,
	}
}

// Record inserts a single death.
func (r *DeathRepository) Record(ctx context.Context, row DeathRow) error {
	if _, err := r.pool.Exec(ctx, insertDeath, deathArgs(row)...); err != nil {
		return fmt.Errorf("insert death of agent %d: %w", row.AgentID, err)
	}
	return nil
}

// RecordBatch inserts several deaths in one round trip.
func (r *DeathRepository) RecordBatch(ctx context.Context, rows []DeathRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(insertDeath, deathArgs(row)...)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert %d deaths: %w", len(rows), err)
	}
	return nil
}

// CountByFaction returns the number of deaths per faction in a session.
func (r *DeathRepository) CountByFaction(ctx context.Context, sessionID uuid.UUID) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT faction, COUNT(*) FROM agent_deaths
		 WHERE session_id = $1::uuid
		 GROUP BY faction`, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("query death counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var faction string
		var n int64
		if err := rows.Scan(&faction, &n); err != nil {
			return nil, fmt.Errorf("scan death count: %w", err)
		}
		counts[faction] = n
	}
	return counts, rows.Err()
}

// ListBySession returns a session's deaths in the order they happened.
func (r *DeathRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]DeathRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id::text, agent_id, faction, archetype, pos_x, pos_y, pos_z, died_at
		 FROM agent_deaths
		 WHERE session_id = $1::uuid
		 ORDER BY died_at, id`, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("query deaths: %w", err)
	}
	defer rows.Close()

	var result []DeathRow
	for rows.Next() {
		var row DeathRow
		var session string
		var agentID int64
		if err := rows.Scan(&row.ID, &session, &agentID, &row.Faction, &row.Archetype,
			&row.PosX, &row.PosY, &row.PosZ, &row.DiedAt); err != nil {
			return nil, fmt.Errorf("scan death: %w", err)
		}
		if row.SessionID, err = uuid.Parse(session); err != nil {
			return nil, fmt.Errorf("parse session id %q: %w", session, err)
		}
		row.AgentID = uint32(agentID)
		result = append(result, row)
	}
	return result, rows.Err()
}
