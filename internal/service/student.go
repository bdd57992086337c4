package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studenthub/backend/internal/logging"
	"github.com/studenthub/backend/internal/models"
	"github.com/studenthub/backend/internal/repo"
)

// EventPublisher delivers domain events after successful mutations.
// Publishing is best-effort: a broker outage never fails the request.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

// SearchIndexer keeps the search index in step with the record store.
// SearchStudents returns matching ids; the caller hydrates them from the
// store so responses always reflect persisted state.
type SearchIndexer interface {
	IndexStudent(ctx context.Context, s *models.Student) error
	RemoveStudent(ctx context.Context, id uuid.UUID) error
	SearchStudents(ctx context.Context, ownerID uuid.UUID, query string) ([]uuid.UUID, bool, error)
}

const studentEventsTopic = "student_events"

type StudentEvent struct {
	Type      string    `json:"type"`
	StudentID uuid.UUID `json:"student_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	At        time.Time `json:"at"`
}

type StudentService struct {
	Repo    *repo.GormRepo
	Events  EventPublisher
	Indexer SearchIndexer
}

// StudentPatch carries a partial update; nil fields are left untouched.
type StudentPatch struct {
	StudentID *string
	FirstName *string
	LastName  *string
	Email     *string
	Age       *int
	Grade     *string
	Course    *string
	Phone     *string
	Address   *models.Address
}

func (s *StudentService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Student, error) {
	return s.Repo.ListStudents(ctx, ownerID)
}

func (s *StudentService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Student, error) {
	student, err := s.Repo.GetStudent(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("student not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return student, nil
}

func (s *StudentService) Create(ctx context.Context, ownerID uuid.UUID, student *models.Student) (*models.Student, error) {
	l := logging.FromContext(ctx).With("svc", "student.create")

	student.Email = strings.ToLower(strings.TrimSpace(student.Email))
	if err := validateStudent(student); err != nil {
		return nil, err
	}

	if taken, err := s.Repo.StudentIDTaken(ctx, student.StudentID, uuid.Nil); err != nil {
		return nil, err
	} else if taken {
		return nil, &DuplicateError{Field: "student_id"}
	}
	if taken, err := s.Repo.StudentEmailTaken(ctx, student.Email, uuid.Nil); err != nil {
		return nil, err
	} else if taken {
		return nil, &DuplicateError{Field: "email"}
	}

	// Owner is always the caller, no matter what the payload claimed.
	student.OwnerID = ownerID

	if err := s.Repo.CreateStudent(ctx, student); err != nil {
		l.Error("create_student_error", "status", 500, "error", err)
		return nil, err
	}

	s.index(ctx, student)
	s.publish(ctx, "student_created", student)

	return student, nil
}

func (s *StudentService) Update(ctx context.Context, ownerID, id uuid.UUID, patch StudentPatch) (*models.Student, error) {
	l := logging.FromContext(ctx).With("svc", "student.update")

	student, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.StudentID != nil && *patch.StudentID != student.StudentID {
		if taken, err := s.Repo.StudentIDTaken(ctx, *patch.StudentID, student.ID); err != nil {
			return nil, err
		} else if taken {
			return nil, &DuplicateError{Field: "student_id"}
		}
		student.StudentID = *patch.StudentID
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email != student.Email {
			if taken, err := s.Repo.StudentEmailTaken(ctx, email, student.ID); err != nil {
				return nil, err
			} else if taken {
				return nil, &DuplicateError{Field: "email"}
			}
			student.Email = email
		}
	}
	if patch.FirstName != nil {
		student.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		student.LastName = *patch.LastName
	}
	if patch.Age != nil {
		student.Age = *patch.Age
	}
	if patch.Grade != nil {
		student.Grade = *patch.Grade
	}
	if patch.Course != nil {
		student.Course = *patch.Course
	}
	if patch.Phone != nil {
		student.Phone = *patch.Phone
	}
	if patch.Address != nil {
		student.Address = *patch.Address
	}

	if err := validateStudent(student); err != nil {
		return nil, err
	}

	student.UpdatedAt = time.Now().UTC()
	if err := s.Repo.SaveStudent(ctx, student); err != nil {
		l.Error("update_student_error", "status", 500, "error", err)
		return nil, err
	}

	s.index(ctx, student)
	s.publish(ctx, "student_updated", student)

	return student, nil
}

func (s *StudentService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "student.delete")

	if err := s.Repo.DeleteStudent(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("student not found: %w", ErrNotFound)
		}
		l.Error("delete_student_error", "status", 500, "error", err)
		return err
	}

	if s.Indexer != nil {
		if err := s.Indexer.RemoveStudent(ctx, id); err != nil {
			l.Warn("search_index_remove_failed", "student_id", id, "error", err)
		}
	}
	s.publish(ctx, "student_deleted", &models.Student{ID: id, OwnerID: ownerID})

	return nil
}

// Search falls back to the record store when no index is configured or
// the index is unreachable.
func (s *StudentService) Search(ctx context.Context, ownerID uuid.UUID, query string) ([]models.Student, error) {
	l := logging.FromContext(ctx).With("svc", "student.search")

	if s.Indexer != nil {
		ids, ok, err := s.Indexer.SearchStudents(ctx, ownerID, query)
		if err != nil {
			l.Warn("search_index_failed", "error", err)
		} else if ok {
			return s.Repo.ListStudentsByIDs(ctx, ownerID, ids)
		}
	}
	return s.Repo.SearchStudents(ctx, ownerID, query)
}

func validateStudent(st *models.Student) error {
	switch {
	case strings.TrimSpace(st.StudentID) == "":
		return fmt.Errorf("student_id is required: %w", ErrValidation)
	case strings.TrimSpace(st.FirstName) == "":
		return fmt.Errorf("first_name is required: %w", ErrValidation)
	case strings.TrimSpace(st.LastName) == "":
		return fmt.Errorf("last_name is required: %w", ErrValidation)
	case !emailRe.MatchString(st.Email):
		return fmt.Errorf("please provide a valid email: %w", ErrValidation)
	case st.Age < 1 || st.Age > 100:
		return fmt.Errorf("age must be between 1 and 100: %w", ErrValidation)
	case strings.TrimSpace(st.Grade) == "":
		return fmt.Errorf("grade is required: %w", ErrValidation)
	case strings.TrimSpace(st.Course) == "":
		return fmt.Errorf("course is required: %w", ErrValidation)
	case strings.TrimSpace(st.Phone) == "":
		return fmt.Errorf("phone is required: %w", ErrValidation)
	}
	return nil
}

func (s *StudentService) index(ctx context.Context, st *models.Student) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexStudent(ctx, st); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "student_id", st.ID, "error", err)
	}
}

func (s *StudentService) publish(ctx context.Context, eventType string, st *models.Student) {
	if s.Events == nil {
		return
	}
	event := StudentEvent{
		Type:      eventType,
		StudentID: st.ID,
		OwnerID:   st.OwnerID,
		At:        time.Now().UTC(),
	}
	if err := s.Events.Publish(ctx, studentEventsTopic, st.ID.String(), event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", eventType, "error", err)
	}
}
