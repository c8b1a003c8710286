// Package storetest provides an in-memory persistence gateway for exercising
// the domain rules and the HTTP surface without a running Postgres.
package storetest

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Arhamhir/Taskflow/internal/domain"
	"github.com/Arhamhir/Taskflow/internal/models"
	"github.com/lib/pq"
)

type Memory struct {
	mu sync.Mutex

	users    map[uint]models.User
	projects map[uint]models.Project
	tasks    map[uint]models.Task

	nextUserID    uint
	nextProjectID uint
	nextTaskID    uint
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[uint]models.User),
		projects: make(map[uint]models.Project),
		tasks:    make(map[uint]models.Task),
	}
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
}

func (m *Memory) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) GetUserByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]

	if !ok {
		return nil, notFound("user")
	}

	return &user, nil
}

func (m *Memory) GetUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Email == email {
			user := user
			return &user, nil
		}
	}

	return nil, notFound("user")
}

func (m *Memory) ListUsers(skip, limit int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]models.User, 0, len(m.users))

	for _, user := range m.users {
		users = append(users, user)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return pageUsers(users, skip, limit), nil
}

func (m *Memory) CreateProject(project *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextProjectID++
	project.ID = m.nextProjectID
	project.CreatedAt = time.Now()
	m.projects[project.ID] = cloneProject(*project)
	return nil
}

func (m *Memory) GetProject(id uint) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	project, ok := m.projects[id]

	if !ok {
		return nil, notFound("project")
	}

	project = cloneProject(project)
	return &project, nil
}

func (m *Memory) ListProjects(skip, limit int) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	projects := make([]models.Project, 0, len(m.projects))

	for _, project := range m.projects {
		projects = append(projects, cloneProject(project))
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })

	if skip > len(projects) {
		skip = len(projects)
	}

	projects = projects[skip:]

	if limit > 0 && limit < len(projects) {
		projects = projects[:limit]
	}

	return projects, nil
}

func (m *Memory) UpdateProjectMembers(project *models.Project, unassign *uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.projects[project.ID]

	if !ok {
		return notFound("project")
	}

	stored.Members = append(pq.Int64Array{}, project.Members...)
	m.projects[project.ID] = stored

	if unassign != nil {
		for id, task := range m.tasks {
			if task.ProjectID == project.ID && task.AssignedTo != nil && *task.AssignedTo == *unassign {
				task.AssignedTo = nil
				m.tasks[id] = task
			}
		}
	}

	return nil
}

func (m *Memory) DeleteProject(id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[id]; !ok {
		return false, nil
	}

	delete(m.projects, id)

	for taskID, task := range m.tasks {
		if task.ProjectID == id {
			delete(m.tasks, taskID)
		}
	}

	return true, nil
}

func (m *Memory) CreateTask(task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextTaskID++
	task.ID = m.nextTaskID
	task.CreatedAt = time.Now()
	m.tasks[task.ID] = *task
	return nil
}

func (m *Memory) GetTask(id uint) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]

	if !ok {
		return nil, notFound("task")
	}

	return &task, nil
}

func (m *Memory) ListTasks(skip, limit int, projectID *uint) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]models.Task, 0, len(m.tasks))

	for _, task := range m.tasks {
		if projectID != nil && task.ProjectID != *projectID {
			continue
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	if skip > len(tasks) {
		skip = len(tasks)
	}

	tasks = tasks[skip:]

	if limit > 0 && limit < len(tasks) {
		tasks = tasks[:limit]
	}

	return tasks, nil
}

func (m *Memory) SaveTask(task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[task.ID]; !ok {
		return notFound("task")
	}

	m.tasks[task.ID] = *task
	return nil
}

func (m *Memory) DeleteTask(id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return false, nil
	}

	delete(m.tasks, id)
	return true, nil
}

func cloneProject(p models.Project) models.Project {
	p.Members = append(pq.Int64Array{}, p.Members...)
	return p
}

func pageUsers(users []models.User, skip, limit int) []models.User {
	if skip > len(users) {
		skip = len(users)
	}

	users = users[skip:]

	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}

	return users
}
