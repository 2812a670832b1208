package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Transition is one latched command change: which command took over, what
// it replaced, the finger count that triggered it and the wheel setpoint
// that went out as a result.
type Transition struct {
	ID            string
	Command       string
	Previous      string
	Fingers       int
	LeftVelocity  float64
	RightVelocity float64
	CreatedAt     time.Time
}

// TransitionRepository provides access to the transition log.
type TransitionRepository struct {
	db *sql.DB
}

// Transitions returns the transition repository for this store.
func (s *Store) Transitions() *TransitionRepository {
	return &TransitionRepository{db: s.db}
}

// Create appends a transition to the log.
func (r *TransitionRepository) Create(t *Transition) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO transitions (id, command, previous, fingers, left_velocity, right_velocity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Command, t.Previous, t.Fingers, t.LeftVelocity, t.RightVelocity, t.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a transition by its ID.
func (r *TransitionRepository) GetByID(id string) (*Transition, error) {
	t := &Transition{}

	err := r.db.QueryRow(
		`SELECT id, command, previous, fingers, left_velocity, right_velocity, created_at
		 FROM transitions WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Command, &t.Previous, &t.Fingers, &t.LeftVelocity, &t.RightVelocity, &t.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return t, nil
}

// List retrieves transitions newest first. A limit of 0 or less returns
// the whole log.
func (r *TransitionRepository) List(limit int) ([]*Transition, error) {
	query := `SELECT id, command, previous, fingers, left_velocity, right_velocity, created_at
	 FROM transitions ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transitions []*Transition
	for rows.Next() {
		t := &Transition{}
		err := rows.Scan(&t.ID, &t.Command, &t.Previous, &t.Fingers, &t.LeftVelocity, &t.RightVelocity, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		transitions = append(transitions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transitions, nil
}

// Count returns the number of logged transitions.
func (r *TransitionRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM transitions`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountByCommand returns how often each command has been latched.
func (r *TransitionRepository) CountByCommand() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT command, COUNT(*) FROM transitions GROUP BY command`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var command string
		var n int
		if err := rows.Scan(&command, &n); err != nil {
			return nil, err
		}
		counts[command] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// Prune deletes everything but the newest keep transitions and returns how
// many rows were removed.
func (r *TransitionRepository) Prune(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	result, err := r.db.Exec(
		`DELETE FROM transitions WHERE id NOT IN (
			SELECT id FROM transitions ORDER BY created_at DESC, id DESC LIMIT ?
		)`,
		keep,
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
