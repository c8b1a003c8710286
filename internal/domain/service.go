package domain

import (
	"fmt"
	"time"

	"github.com/Arhamhir/Taskflow/internal/auth"
	"github.com/Arhamhir/Taskflow/internal/models"
	"github.com/lib/pq"
)

// Error carries a domain error kind together with a human-readable message.
// errors.Is against the sentinel kinds still works through Unwrap.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string { return e.message }
func (e *Error) Unwrap() error { return e.kind }

func notFoundError(message string) error {
	return &Error{kind: ErrNotFound, message: message}
}

func forbiddenError(message string) error {
	return &Error{kind: ErrForbidden, message: message}
}

func conflictError(message string) error {
	return &Error{kind: ErrConflict, message: message}
}

func unauthenticatedError(message string) error {
	return &Error{kind: ErrUnauthenticated, message: message}
}

// Store is the persistence gateway the domain logic runs against. Lookups for
// missing rows return an error satisfying errors.Is(err, ErrNotFound); deletes
// report whether a row existed.
type Store interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers(skip, limit int) ([]models.User, error)

	CreateProject(project *models.Project) error
	GetProject(id uint) (*models.Project, error)
	ListProjects(skip, limit int) ([]models.Project, error)
	// UpdateProjectMembers persists the full members array. When unassign is
	// set, every task in the project assigned to that user is cleared in the
	// same transaction.
	UpdateProjectMembers(project *models.Project, unassign *uint) error
	// DeleteProject removes the project and all of its tasks in one
	// transaction.
	DeleteProject(id uint) (bool, error)

	CreateTask(task *models.Task) error
	GetTask(id uint) (*models.Task, error)
	ListTasks(skip, limit int, projectID *uint) ([]models.Task, error)
	SaveTask(task *models.Task) error
	DeleteTask(id uint) (bool, error)
}

// Service enforces the ownership and membership rules over the store.
type Service struct {
	store  Store
	hasher *auth.PasswordHasher
}

func NewService(store Store, hasher *auth.PasswordHasher) *Service {
	return &Service{store: store, hasher: hasher}
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

func (s *Service) RegisterUser(input CreateUserInput) (*models.User, error) {
	if _, err := s.store.GetUserByEmail(input.Email); err == nil {
		return nil, conflictError("Email already registered")
	}

	passwordHash, err := s.hasher.Hash(input.Password)

	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := input.Role

	if role == "" {
		role = models.DefaultRole
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login resolves the caller by email and password. The token itself is issued
// by the API layer.
func (s *Service) Login(email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(email)

	if err != nil || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, unauthenticatedError("Incorrect email or password")
	}

	return user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	return s.store.GetUserByEmail(email)
}

func (s *Service) ListUsers(skip, limit int) ([]models.User, error) {
	return s.store.ListUsers(skip, limit)
}

type CreateProjectInput struct {
	Name        string
	Description string
	Deadline    *time.Time
	Members     []int64
}

func (s *Service) CreateProject(callerID uint, input CreateProjectInput) (*models.Project, error) {
	members := input.Members

	if members == nil {
		members = []int64{}
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Deadline:    input.Deadline,
		OwnerID:     callerID,
		Members:     pq.Int64Array(members),
	}

	if err := s.store.CreateProject(project); err != nil {
		return nil, err
	}

	return project, nil
}

// ListProjects pages through all projects and keeps the ones the caller owns
// or belongs to. The page is taken before filtering, matching the reference
// behavior.
func (s *Service) ListProjects(callerID uint, skip, limit int) ([]models.Project, error) {
	projects, err := s.store.ListProjects(skip, limit)

	if err != nil {
		return nil, err
	}

	visible := make([]models.Project, 0, len(projects))

	for _, project := range projects {
		if project.CanView(callerID) {
			visible = append(visible, project)
		}
	}

	return visible, nil
}

func (s *Service) GetProject(callerID, projectID uint) (*models.Project, error) {
	project, err := s.store.GetProject(projectID)

	if err != nil {
		return nil, notFoundError("Project not found")
	}

	if !project.CanView(callerID) {
		return nil, forbiddenError("Not authorized to view this project")
	}

	return project, nil
}

// AddMember appends userID to the project's members. Adding a user who is
// already a member is a silent no-op returning the current state.
func (s *Service) AddMember(callerID, projectID, userID uint) (*models.Project, error) {
	project, err := s.store.GetProject(projectID)

	if err != nil {
		return nil, notFoundError("Project not found")
	}

	if project.OwnerID != callerID {
		return nil, forbiddenError("Only owner can add members")
	}

	if _, err := s.store.GetUserByID(userID); err != nil {
		return nil, notFoundError("User not found")
	}

	if project.HasMember(userID) {
		return project, nil
	}

	// Always build a fresh array so change detection on the column cannot
	// miss the write.
	members := make(pq.Int64Array, 0, len(project.Members)+1)
	members = append(members, project.Members...)
	members = append(members, int64(userID))
	project.Members = members

	if err := s.store.UpdateProjectMembers(project, nil); err != nil {
		return nil, err
	}

	return project, nil
}

// RemoveMember drops userID from the project's members and unassigns every
// task in the project currently assigned to that user. Removing a non-member
// is a silent no-op that leaves all tasks untouched.
func (s *Service) RemoveMember(callerID, projectID, userID uint) (*models.Project, error) {
	project, err := s.store.GetProject(projectID)

	if err != nil {
		return nil, notFoundError("Project not found")
	}

	if project.OwnerID != callerID {
		return nil, forbiddenError("Only owner can remove members")
	}

	if !project.HasMember(userID) {
		return project, nil
	}

	members := make(pq.Int64Array, 0, len(project.Members))

	for _, id := range project.Members {
		if uint(id) != userID {
			members = append(members, id)
		}
	}

	project.Members = members

	if err := s.store.UpdateProjectMembers(project, &userID); err != nil {
		return nil, err
	}

	return project, nil
}

// DeleteProject removes the project and cascades deletion of all its tasks.
func (s *Service) DeleteProject(projectID uint) error {
	existed, err := s.store.DeleteProject(projectID)

	if err != nil {
		return err
	}

	if !existed {
		return notFoundError("Project not found")
	}

	return nil
}

type CreateTaskInput struct {
	Name        string
	Description string
	ProjectID   uint
	AssignedTo  *uint
	Status      string
	Deadline    *time.Time
}

// CreateTask creates a task under a project the caller owns. The assignee is
// deliberately not checked against the membership list, matching the
// reference behavior.
func (s *Service) CreateTask(callerID uint, input CreateTaskInput) (*models.Task, error) {
	project, err := s.store.GetProject(input.ProjectID)

	if err != nil {
		return nil, notFoundError("Project not found")
	}

	if project.OwnerID != callerID {
		return nil, forbiddenError("Only project owner can create tasks")
	}

	status := input.Status

	if status == "" {
		status = models.StatusToDo
	}

	task := &models.Task{
		Name:        input.Name,
		Description: input.Description,
		ProjectID:   input.ProjectID,
		AssignedTo:  input.AssignedTo,
		Status:      status,
		Deadline:    input.Deadline,
	}

	if err := s.store.CreateTask(task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *Service) ListTasks(callerID uint, skip, limit int, projectID *uint) ([]models.Task, error) {
	if projectID != nil {
		project, err := s.store.GetProject(*projectID)

		if err != nil {
			return nil, notFoundError("Project not found")
		}

		if !project.CanView(callerID) {
			return nil, forbiddenError("Not authorized to view tasks in this project")
		}
	}

	return s.store.ListTasks(skip, limit, projectID)
}

// UpdateTask applies a partial update. Only the task's assignee or the owner
// of its project may update it.
func (s *Service) UpdateTask(callerID, taskID uint, patch TaskPatch) (*models.Task, error) {
	task, err := s.store.GetTask(taskID)

	if err != nil {
		return nil, notFoundError("Task not found")
	}

	project, err := s.store.GetProject(task.ProjectID)

	if err != nil {
		return nil, notFoundError("Project not found")
	}

	assignee := task.AssignedTo != nil && *task.AssignedTo == callerID

	if !assignee && project.OwnerID != callerID {
		return nil, forbiddenError("Not authorized to update this task")
	}

	patch.Apply(task)

	if err := s.store.SaveTask(task); err != nil {
		return nil, err
	}

	return task, nil
}

// DeleteTask is owner-only; the assignee gets Forbidden like anyone else.
func (s *Service) DeleteTask(callerID, taskID uint) error {
	task, err := s.store.GetTask(taskID)

	if err != nil {
		return notFoundError("Task not found")
	}

	project, err := s.store.GetProject(task.ProjectID)

	if err != nil {
		return notFoundError("Project not found")
	}

	if project.OwnerID != callerID {
		return forbiddenError("Only project owner can delete tasks")
	}

	existed, err := s.store.DeleteTask(taskID)

	if err != nil {
		return err
	}

	if !existed {
		return notFoundError("Task not found")
	}

	return nil
}
