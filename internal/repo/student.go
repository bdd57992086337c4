package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studenthub/backend/internal/models"
)

func (r *GormRepo) ListStudents(ctx context.Context, ownerID uuid.UUID) ([]models.Student, error) {
	items := make([]models.Student, 0)
	if err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetStudent is scoped by owner: a record owned by someone else looks
// exactly like a missing record.
func (r *GormRepo) GetStudent(ctx context.Context, ownerID, id uuid.UUID) (*models.Student, error) {
	var student models.Student
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *GormRepo) CreateStudent(ctx context.Context, s *models.Student) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) SaveStudent(ctx context.Context, s *models.Student) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

func (r *GormRepo) DeleteStudent(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Student{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// StudentIDTaken reports whether another record (any owner) already uses
// the given student_id. exclude skips the record being updated.
func (r *GormRepo) StudentIDTaken(ctx context.Context, studentID string, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&models.Student{}).Where("student_id = ?", studentID)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) StudentEmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&models.Student{}).Where("email = ?", email)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListStudentsByIDs hydrates records matched by the search index,
// preserving the given order. Ids owned by someone else are dropped.
func (r *GormRepo) ListStudentsByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Student, error) {
	if len(ids) == 0 {
		return []models.Student{}, nil
	}

	var found []models.Student
	if err := r.DB.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Student, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	items := make([]models.Student, 0, len(found))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			items = append(items, s)
		}
	}
	return items, nil
}

// SearchStudents is the database fallback for the search endpoint; the
// match is a case-insensitive substring over the text fields, still
// scoped to the owner.
func (r *GormRepo) SearchStudents(ctx context.Context, ownerID uuid.UUID, q string) ([]models.Student, error) {
	pattern := "%" + q + "%"
	items := make([]models.Student, 0)
	if err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where(
			"lower(first_name) LIKE lower(?) OR lower(last_name) LIKE lower(?) OR lower(student_id) LIKE lower(?) OR lower(email) LIKE lower(?) OR lower(course) LIKE lower(?) OR lower(grade) LIKE lower(?)",
			pattern, pattern, pattern, pattern, pattern, pattern,
		).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
