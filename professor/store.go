package professor

import (
	"context"
	"fmt"

	"github.com/myschool/campus/postgres"
)

// A Store persists professors.
//
// Methods return campus.ErrNotExist for a missing record
// and campus.ErrExists when a UserID is taken.
type Store interface {
	List(ctx context.Context, q Query) (postgres.PagedData, error)
	Get(ctx context.Context, id int64) (Professor, error)
	Create(ctx context.Context, p *Professor) error
	Update(ctx context.Context, p Professor) error
	Delete(ctx context.Context, id int64) error
}

var _ Store = (*DBStore)(nil)

// DBStore is a Store over PostgreSQL.
type DBStore struct {
	db *postgres.DB
}

// NewDBStore constructs a *DBStore.
func NewDBStore(db *postgres.DB) *DBStore { return &DBStore{db: db} }

func (s *DBStore) with(ctx context.Context) *postgres.DB {
	return postgres.NewDB(s.db.DB().WithContext(ctx))
}

// List pages through professors whose name or user ID contains q.Keyword, newest first.
// The items of the PagedData are a *[]Professor.
func (s *DBStore) List(ctx context.Context, q Query) (postgres.PagedData, error) {
	db := s.with(ctx).Model(new(Professor))
	if q.Keyword != "" {
		like := "%" + q.Keyword + "%"
		db = db.Where(s.with(ctx).Where("name LIKE ?", like).Or("userid LIKE ?", like))
	}

	return db.Order("profno DESC").Paged(q.Page, q.Rows)
}

// Get fetches the professor with id.
func (s *DBStore) Get(ctx context.Context, id int64) (Professor, error) {
	var p Professor
	if err := s.with(ctx).Where("profno = ?", id).First(&p); err != nil {
		return Professor{}, fmt.Errorf("professor %d: %w", id, err)
	}

	return p, nil
}

// Create inserts p, setting its ID.
func (s *DBStore) Create(ctx context.Context, p *Professor) error {
	p.ID = 0
	return s.with(ctx).Create(p)
}

// Update replaces every column of the professor with p.ID.
// The existence check and the write share one transaction.
func (s *DBStore) Update(ctx context.Context, p Professor) error {
	return s.with(ctx).Transaction(func(tx *postgres.DB) error {
		var cur Professor
		if err := tx.Where("profno = ?", p.ID).First(&cur); err != nil {
			return fmt.Errorf("professor %d: %w", p.ID, err)
		}

		return tx.Model(new(Professor)).Where("profno = ?", p.ID).Update(columns(p))
	})
}

func columns(p Professor) map[string]any {
	return map[string]any{
		"name":     p.Name,
		"userid":   p.UserID,
		"position": p.Position,
		"sal":      p.Sal,
		"hiredate": p.HireDate,
		"comm":     p.Comm,
		"deptno":   p.DeptNo,
	}
}

// Delete removes the professor with id.
func (s *DBStore) Delete(ctx context.Context, id int64) error {
	return s.with(ctx).Where("profno = ?", id).Delete(new(Professor))
}
