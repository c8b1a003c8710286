package store

import (
	"errors"
	"fmt"

	"github.com/Arhamhir/Taskflow/internal/domain"
	"github.com/Arhamhir/Taskflow/internal/models"
	"gorm.io/gorm"
)

const DefaultLimit = 100

// Store is the GORM-backed persistence gateway.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return skip, limit
}

func wrapLookup(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

func (s *Store) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *Store) GetUserByID(id uint) (*models.User, error) {
	var user models.User

	if err := s.db.First(&user, id).Error; err != nil {
		return nil, wrapLookup(err, "user")
	}

	return &user, nil
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User

	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrapLookup(err, "user")
	}

	return &user, nil
}

func (s *Store) ListUsers(skip, limit int) ([]models.User, error) {
	skip, limit = normalizePage(skip, limit)

	var users []models.User

	if err := s.db.Order("id").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (s *Store) CreateProject(project *models.Project) error {
	return s.db.Create(project).Error
}

func (s *Store) GetProject(id uint) (*models.Project, error) {
	var project models.Project

	if err := s.db.First(&project, id).Error; err != nil {
		return nil, wrapLookup(err, "project")
	}

	return &project, nil
}

func (s *Store) ListProjects(skip, limit int) ([]models.Project, error) {
	skip, limit = normalizePage(skip, limit)

	var projects []models.Project

	if err := s.db.Order("id").Offset(skip).Limit(limit).Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

// UpdateProjectMembers writes the full members array back. When unassign is
// set, tasks in the project assigned to that user are cleared in the same
// transaction.
func (s *Store) UpdateProjectMembers(project *models.Project, unassign *uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(project).Update("members", project.Members).Error; err != nil {
			return err
		}

		if unassign != nil {
			if err := tx.Model(&models.Task{}).
				Where("project_id = ? AND assigned_to = ?", project.ID, *unassign).
				Update("assigned_to", nil).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteProject removes the project and all of its tasks in one transaction.
// The cascade is issued explicitly rather than left to schema constraints.
func (s *Store) DeleteProject(id uint) (bool, error) {
	existed := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project

		if err := tx.First(&project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&project).Error; err != nil {
			return err
		}

		existed = true
		return nil
	})

	return existed, err
}

func (s *Store) CreateTask(task *models.Task) error {
	return s.db.Create(task).Error
}

func (s *Store) GetTask(id uint) (*models.Task, error) {
	var task models.Task

	if err := s.db.First(&task, id).Error; err != nil {
		return nil, wrapLookup(err, "task")
	}

	return &task, nil
}

func (s *Store) ListTasks(skip, limit int, projectID *uint) ([]models.Task, error) {
	skip, limit = normalizePage(skip, limit)

	query := s.db.Order("id")

	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var tasks []models.Task

	if err := query.Offset(skip).Limit(limit).Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// SaveTask writes the full record back, including fields cleared to NULL.
func (s *Store) SaveTask(task *models.Task) error {
	return s.db.Model(task).Updates(map[string]interface{}{
		"name":        task.Name,
		"description": task.Description,
		"assigned_to": task.AssignedTo,
		"status":      task.Status,
		"deadline":    task.Deadline,
	}).Error
}

func (s *Store) DeleteTask(id uint) (bool, error) {
	result := s.db.Delete(&models.Task{}, id)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
