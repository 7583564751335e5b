package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/geometry"
)

// TemplateType represents the type of template (static pose or dynamic path).
type TemplateType string

const (
	// TemplateTypeStatic is a single hand pose.
	TemplateTypeStatic TemplateType = "static"
	// TemplateTypeDynamic is a traced path.
	TemplateTypeDynamic TemplateType = "dynamic"
)

// Template is a trained template stored in the database. Label is the pose
// label a static template assigns.
type Template struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      TemplateType `json:"type"`
	Label     string       `json:"label,omitempty"`
	Tolerance float64      `json:"tolerance"`
	Samples   int          `json:"samples"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TemplateRepository provides CRUD operations for templates.
type TemplateRepository struct {
	db *sql.DB
}

// Templates returns the template repository for this store.
func (s *Store) Templates() *TemplateRepository {
	return &TemplateRepository{db: s.db}
}

const templateColumns = `id, name, type, label, tolerance, samples, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (*Template, error) {
	t := &Template{}
	var typ string
	if err := row.Scan(&t.ID, &t.Name, &typ, &t.Label, &t.Tolerance, &t.Samples, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Type = TemplateType(typ)
	return t, nil
}

// Create inserts a new template into the database.
func (r *TemplateRepository) Create(t *Template) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO templates (`+templateColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, string(t.Type), t.Label, t.Tolerance, t.Samples, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *TemplateRepository) getOne(where string, arg any) (*Template, error) {
	t, err := scanTemplate(r.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE `+where+` = ?`, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a template by its ID.
func (r *TemplateRepository) GetByID(id string) (*Template, error) {
	return r.getOne("id", id)
}

// GetByName retrieves a template by its name.
func (r *TemplateRepository) GetByName(name string) (*Template, error) {
	return r.getOne("name", name)
}

// List retrieves all templates, newest first.
func (r *TemplateRepository) List() ([]*Template, error) {
	rows, err := r.db.Query(`SELECT ` + templateColumns + ` FROM templates ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

// Update updates an existing template in the database.
func (r *TemplateRepository) Update(t *Template) error {
	t.UpdatedAt = time.Now()

	res, err := r.db.Exec(
		`UPDATE templates SET name = ?, type = ?, label = ?, tolerance = ?, samples = ?, updated_at = ?
		 WHERE id = ?`,
		t.Name, string(t.Type), t.Label, t.Tolerance, t.Samples, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return err
	}
	return affected(res)
}

// Delete removes a template and, by cascade, its landmarks, path and samples.
func (r *TemplateRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// SetLandmarks replaces the landmarks of a static template.
func (r *TemplateRepository) SetLandmarks(id string, points []geometry.Point) error {
	return r.replace(id, `DELETE FROM template_landmarks WHERE template_id = ?`,
		`INSERT INTO template_landmarks (template_id, landmark_index, x, y, z) VALUES (?, ?, ?, ?, ?)`,
		len(points), func(i int) []any {
			p := points[i]
			return []any{id, i, p.X, p.Y, p.Z}
		})
}

// SetPath replaces the path of a dynamic template.
func (r *TemplateRepository) SetPath(id string, points []geometry.Point) error {
	return r.replace(id, `DELETE FROM template_paths WHERE template_id = ?`,
		`INSERT INTO template_paths (template_id, sequence, x, y) VALUES (?, ?, ?, ?)`,
		len(points), func(i int) []any {
			p := points[i]
			return []any{id, i, p.X, p.Y}
		})
}

func (r *TemplateRepository) replace(id, del, ins string, n int, args func(int) []any) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM templates WHERE id = ?`, id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(del, id); err != nil {
		return err
	}
	stmt, err := tx.Prepare(ins)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			return fmt.Errorf("insert point %d: %w", i, err)
		}
	}
	if _, err := tx.Exec(`UPDATE templates SET updated_at = ? WHERE id = ?`, time.Now(), id); err != nil {
		return err
	}
	return tx.Commit()
}

// Landmarks returns the landmarks of a static template in index order.
func (r *TemplateRepository) Landmarks(id string) ([]geometry.Point, error) {
	return r.points(`SELECT x, y, z FROM template_landmarks WHERE template_id = ? ORDER BY landmark_index`, id, true)
}

// Path returns the path of a dynamic template in sequence order.
func (r *TemplateRepository) Path(id string) ([]geometry.Point, error) {
	return r.points(`SELECT x, y FROM template_paths WHERE template_id = ? ORDER BY sequence`, id, false)
}

func (r *TemplateRepository) points(query, id string, withZ bool) ([]geometry.Point, error) {
	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []geometry.Point
	for rows.Next() {
		var p geometry.Point
		dest := []any{&p.X, &p.Y}
		if withZ {
			dest = append(dest, &p.Z)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
