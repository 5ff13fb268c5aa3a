package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Style represents the catalog style classification of a watch.
type Style string

const (
	// StyleClassic represents everyday dress watches.
	StyleClassic Style = "classic"
	// StyleSports represents chronographs and divers.
	StyleSports Style = "sports"
	// StyleLuxury represents high-end dress watches.
	StyleLuxury Style = "luxury"
)

// Watch represents a catalog entry stored in the database.
// ImagePath is the overlay image file name relative to the asset directory.
type Watch struct {
	ID          string
	Name        string
	Brand       string
	Price       float64
	Description string
	ImagePath   string
	CaseSize    int
	Style       Style
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WatchRepository provides CRUD operations for watches.
type WatchRepository struct {
	db *sql.DB
}

// Watches returns the watch repository for this store.
func (s *Store) Watches() *WatchRepository {
	return &WatchRepository{db: s.db}
}

// Create inserts a new watch into the database.
func (r *WatchRepository) Create(w *Watch) error {
	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO watches (id, name, brand, price, description, image_path, case_size, style, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.Brand, w.Price, w.Description, w.ImagePath, w.CaseSize, string(w.Style), w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a watch by its ID.
func (r *WatchRepository) GetByID(id string) (*Watch, error) {
	w := &Watch{}
	var style string

	err := r.db.QueryRow(
		`SELECT id, name, brand, price, description, image_path, case_size, style, created_at, updated_at
		 FROM watches WHERE id = ?`,
		id,
	).Scan(&w.ID, &w.Name, &w.Brand, &w.Price, &w.Description, &w.ImagePath, &w.CaseSize, &style, &w.CreatedAt, &w.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	w.Style = Style(style)
	return w, nil
}

// List retrieves all watches from the database.
func (r *WatchRepository) List() ([]*Watch, error) {
	rows, err := r.db.Query(
		`SELECT id, name, brand, price, description, image_path, case_size, style, created_at, updated_at
		 FROM watches ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var watches []*Watch
	for rows.Next() {
		w := &Watch{}
		var style string

		err := rows.Scan(&w.ID, &w.Name, &w.Brand, &w.Price, &w.Description, &w.ImagePath, &w.CaseSize, &style, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			return nil, err
		}

		w.Style = Style(style)
		watches = append(watches, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return watches, nil
}

// Update updates an existing watch in the database.
func (r *WatchRepository) Update(w *Watch) error {
	w.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE watches SET name = ?, brand = ?, price = ?, description = ?, image_path = ?, case_size = ?, style = ?, updated_at = ?
		 WHERE id = ?`,
		w.Name, w.Brand, w.Price, w.Description, w.ImagePath, w.CaseSize, string(w.Style), w.UpdatedAt, w.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a watch from the database by its ID.
func (r *WatchRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM watches WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// ImageCatalog resolves watch identifiers to overlay image files under a
// base directory. It satisfies the asset cache's catalog dependency.
type ImageCatalog struct {
	repo *WatchRepository
	dir  string
}

// ImageCatalog returns a catalog rooted at the given asset directory.
func (s *Store) ImageCatalog(dir string) *ImageCatalog {
	return &ImageCatalog{repo: s.Watches(), dir: dir}
}

// ImagePath returns the on-disk path of the overlay image for a watch.
func (c *ImageCatalog) ImagePath(id string) (string, error) {
	w, err := c.repo.GetByID(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.dir, w.ImagePath), nil
}
