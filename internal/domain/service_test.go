package domain_test

import (
	"errors"
	"testing"

	"github.com/Arhamhir/Taskflow/internal/auth"
	"github.com/Arhamhir/Taskflow/internal/domain"
	"github.com/Arhamhir/Taskflow/internal/models"
	"github.com/Arhamhir/Taskflow/internal/storetest"
)

func newTestService(t *testing.T) (*domain.Service, *storetest.Memory) {
	t.Helper()
	store := storetest.NewMemory()
	return domain.NewService(store, auth.NewPasswordHasher(4)), store
}

func registerUser(t *testing.T, svc *domain.Service, name, email string) *models.User {
	t.Helper()

	user, err := svc.RegisterUser(domain.CreateUserInput{
		Name:     name,
		Email:    email,
		Password: "hunter2hunter2",
	})

	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}

	return user
}

func createProject(t *testing.T, svc *domain.Service, ownerID uint, name string) *models.Project {
	t.Helper()

	project, err := svc.CreateProject(ownerID, domain.CreateProjectInput{Name: name})

	if err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}

	return project
}

func createTask(t *testing.T, svc *domain.Service, ownerID uint, input domain.CreateTaskInput) *models.Task {
	t.Helper()

	task, err := svc.CreateTask(ownerID, input)

	if err != nil {
		t.Fatalf("create task %s: %v", input.Name, err)
	}

	return task
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	svc, _ := newTestService(t)

	user := registerUser(t, svc, "Alice", "alice@example.com")

	if user.PasswordHash == "hunter2hunter2" {
		t.Fatal("stored password equals the plaintext")
	}

	if user.Role != models.DefaultRole {
		t.Fatalf("role = %q, want %q", user.Role, models.DefaultRole)
	}

	stored, err := svc.GetUserByEmail("alice@example.com")

	if err != nil {
		t.Fatalf("get by email: %v", err)
	}

	hasher := auth.NewPasswordHasher(4)

	if !hasher.Verify("hunter2hunter2", stored.PasswordHash) {
		t.Fatal("original password does not verify against stored hash")
	}

	if hasher.Verify("hunter2hunter3", stored.PasswordHash) {
		t.Fatal("mutated password verifies against stored hash")
	}
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	svc, _ := newTestService(t)

	registerUser(t, svc, "Alice", "alice@example.com")

	_, err := svc.RegisterUser(domain.CreateUserInput{
		Name:     "Impostor",
		Email:    "alice@example.com",
		Password: "different",
	})

	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newTestService(t)

	registerUser(t, svc, "Alice", "alice@example.com")

	if _, err := svc.Login("alice@example.com", "wrong-password"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("wrong password: err = %v, want ErrUnauthenticated", err)
	}

	if _, err := svc.Login("nobody@example.com", "hunter2hunter2"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("unknown email: err = %v, want ErrUnauthenticated", err)
	}

	user, err := svc.Login("alice@example.com", "hunter2hunter2")

	if err != nil {
		t.Fatalf("valid login: %v", err)
	}

	if user.Email != "alice@example.com" {
		t.Fatalf("login returned wrong user %q", user.Email)
	}
}

func TestAddMemberTwiceIsNoOp(t *testing.T) {
	svc, _ := newTestService(t)

	owner := registerUser(t, svc, "Alice", "alice@example.com")
	member := registerUser(t, svc, "Bob", "bob@example.com")
	project := createProject(t, svc, owner.ID, "P")

	first, err := svc.AddMember(owner.ID, project.ID, member.ID)

	if err != nil {
		t.Fatalf("add member: %v", err)
	}

	if len(first.Members) != 1 || uint(first.Members[0]) != member.ID {
		t.Fatalf("members = %v, want [%d]", first.Members, member.ID)
	}

	second, err := svc.AddMember(owner.ID, project.ID, member.ID)

	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(second.Members) != 1 {
		t.Fatalf("second add changed members to %v", second.Members)
	}
}

func TestAddMemberAuthorization(t *testing.T) {
	svc, _ := newTestService(t)

	owner := registerUser(t, svc, "Alice", "alice@example.com")
	stranger := registerUser(t, svc, "Mallory", "mallory@example.com")
	project := createProject(t, svc, owner.ID, "P")

	if _, err := svc.AddMember(owner.ID, project.ID+100, stranger.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing project: err = %v, want ErrNotFound", err)
	}

	if _, err := svc.AddMember(stranger.ID, project.ID, stranger.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner: err = %v, want ErrForbidden", err)
	}

	if _, err := svc.AddMember(owner.ID, project.ID, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing user: err = %v, want ErrNotFound", err)
	}
}

func TestRemoveMemberCascadesUnassignment(t *testing.T) {
	svc, _ := newTestService(t)

	owner := registerUser(t, svc, "Alice", "alice@example.com")
	member := registerUser(t, svc, "Bob", "bob@example.com")
	project := createProject(t, svc, owner.ID, "P")
	other := createProject(t, svc, owner.ID, "Q")

	if _, err := svc.AddMember(owner.ID, project.ID, member.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}

	var inProject []uint

	for i := 0; i < 3; i++ {
		task := createTask(t, svc, owner.ID, domain.CreateTaskInput{
			Name:       "task",
			ProjectID:  project.ID,
			AssignedTo: &member.ID,
		})
		inProject = append(inProject, task.ID)
	}

	elsewhere := createTask(t, svc, owner.ID, domain.CreateTaskInput{
		Name:       "elsewhere",
		ProjectID:  other.ID,
		AssignedTo: &member.ID,
	})

	updated, err := svc.RemoveMember(owner.ID, project.ID, member.ID)

	if err != nil {
		t.Fatalf("remove member: %v", err)
	}

	if len(updated.Members) != 0 {
		t.Fatalf("members = %v, want empty", updated.Members)
	}

	for _, id := range inProject {
		task, err := svc.UpdateTask(owner.ID, id, domain.TaskPatch{})

		if err != nil {
			t.Fatalf("fetch task %d: %v", id, err)
		}

		if task.AssignedTo != nil {
			t.Fatalf("task %d still assigned to %d", id, *task.AssignedTo)
		}
	}

	outside, err := svc.UpdateTask(owner.ID, elsewhere.ID, domain.TaskPatch{})

	if err != nil {
		t.Fatalf("fetch outside task: %v", err)
	}

	if outside.AssignedTo == nil || *outside.AssignedTo != member.ID {
		t.Fatal("cascade touched a task in another project")
	}
}

func TestRemoveNonMemberIsNoOp(t *testing.T) {
	svc, _ := newTestService(t)

	owner := registerUser(t, svc, "Alice", "alice@example.com")
	outsider := registerUser(t, svc, "Bob", "bob@example.com")
	project := createProject(t, svc, owner.ID, "P")

	// Assigned but never added as a member: removal must not clear it.
	task := createTask(t, svc, owner.ID, domain.CreateTaskInput{
		Name:       "orphan",
		ProjectID:  project.ID,
		AssignedTo: &outsider.ID,
	})

	updated, err := svc.RemoveMember(owner.ID, project.ID, outsider.ID)

	if err != nil {
		t.Fatalf("remove non-member: %v", err)
	}

	if len(updated.Members) != 0 {
		t.Fatalf("members = %v, want empty", updated.Members)
	}

	got, err := svc.UpdateTask(owner.ID, task.ID, domain.TaskPatch{})

	if err != nil {
		t.Fatalf("fetch task: %v", err)
	}

	if got.AssignedTo == nil || *got.AssignedTo != outsider.ID {
		t.Fatal("no-op removal unassigned a task")
	}
}

func TestGetProjectAccess(t *testing.T) {
	svc, _ := newTestService(t)

	owner := registerUser(t, svc, "Alice", "alice@example.com")
	member := registerUser(t, svc, "Bob", "bob@example.com")
	stranger := registerUser(t, svc, "Mallory", "mallory@example.com")
	project := createProject(t, svc, owner.ID, "P")

	if _, err := svc.AddMember(owner.ID, project.ID, member.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}

	if _, err := svc.GetProject(owner.ID, project.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}

	if _, err := svc.GetProject(member.ID, project.ID); err != nil {
		t.Fatalf("member read: %v", err)
	}

	if _, err := svc.GetProject(stranger.ID, project.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger read: err = %v, want ErrForbidden", err)
	}

	if _, err := svc.GetProject(owner.ID, project.ID+100); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing project: err = %v, want ErrNotFound", err)
	}
}

func TestListProjectsFiltersToVisible(t *testing.T) {
	svc, _ := newTestService(t)

	alice := registerUser(t, svc, "Alice", "alice@example.com")
	bob := registerUser(t, svc, "Bob", "bob@example.com")

	mine := createProject(t, svc, alice.ID, "mine")
	createProject(t, svc, bob.ID, "theirs")
	shared := createProject(t, svc, bob.ID, "shared")

	if _, err := svc.AddMember(bob.ID, shared.ID, alice.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}

	projects, err := svc.ListProjects(alice.ID, 0, 100)

	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(projects) != 2 {
		t.Fatalf("visible projects = %d, want 2", len(projects))
	}

	if projects[0].ID != mine.ID || projects[1].ID != shared.ID {
		t.Fatalf("visible ids = %d,%d want %d,%d", projects[0].ID, projects[1].ID, mine.ID, shared.ID)
	}
}

func TestCreateTaskOwnerOnly(t *testing.T) {
	svc, _ := newTestService(t)

	owner := registerUser(t, svc, "Alice", "alice@example.com")
	member := registerUser(t, svc, "Bob", "bob@example.com")
	project := createProject(t, svc, owner.ID, "P")

	if _, err := svc.AddMember(owner.ID, project.ID, member.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}

	if _, err := svc.CreateTask(member.ID, domain.CreateTaskInput{Name: "t", ProjectID: project.ID}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("member create: err = %v, want ErrForbidden", err)
	}

	if _, err := svc.CreateTask(owner.ID, domain.CreateTaskInput{Name: "t", ProjectID: project.ID + 100}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing project: err = %v, want ErrNotFound", err)
	}

	task := createTask(t, svc, owner.ID, domain.CreateTaskInput{Name: "t", ProjectID: project.ID})

	if task.Status != models.StatusToDo {
		t.Fatalf("default status = %q, want %q", task.Status, models.StatusToDo)
	}
}

func TestCreateTaskAllowsNonMemberAssignee(t *testing.T) {
	svc, _ := newTestService(t)

	owner := registerUser(t, svc, "Alice", "alice@example.com")
	stranger := registerUser(t, svc, "Mallory", "mallory@example.com")
	project := createProject(t, svc, owner.ID, "P")

	// Assignees are not checked against the membership list.
	task := createTask(t, svc, owner.ID, domain.CreateTaskInput{
		Name:       "t",
		ProjectID:  project.ID,
		AssignedTo: &stranger.ID,
	})

	if task.AssignedTo == nil || *task.AssignedTo != stranger.ID {
		t.Fatal("non-member assignee was not recorded")
	}
}

func TestListTasksProjectFilter(t *testing.T) {
	svc, _ := newTestService(t)

	owner := registerUser(t, svc, "Alice", "alice@example.com")
	stranger := registerUser(t, svc, "Mallory", "mallory@example.com")
	project := createProject(t, svc, owner.ID, "P")
	other := createProject(t, svc, owner.ID, "Q")

	createTask(t, svc, owner.ID, domain.CreateTaskInput{Name: "a", ProjectID: project.ID})
	createTask(t, svc, owner.ID, domain.CreateTaskInput{Name: "b", ProjectID: other.ID})

	tasks, err := svc.ListTasks(owner.ID, 0, 100, &project.ID)

	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(tasks) != 1 || tasks[0].Name != "a" {
		t.Fatalf("filtered tasks = %v", tasks)
	}

	if _, err := svc.ListTasks(stranger.ID, 0, 100, &project.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger filter: err = %v, want ErrForbidden", err)
	}

	missing := project.ID + 100

	if _, err := svc.ListTasks(owner.ID, 0, 100, &missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing project filter: err = %v, want ErrNotFound", err)
	}

	all, err := svc.ListTasks(stranger.ID, 0, 100, nil)

	if err != nil {
		t.Fatalf("unfiltered list: %v", err)
	}

	if len(all) != 2 {
		t.Fatalf("unfiltered tasks = %d, want 2", len(all))
	}
}

func TestUpdateTaskRights(t *testing.T) {
	svc, _ := newTestService(t)

	owner := registerUser(t, svc, "Alice", "alice@example.com")
	assignee := registerUser(t, svc, "Bob", "bob@example.com")
	member := registerUser(t, svc, "Carol", "carol@example.com")
	project := createProject(t, svc, owner.ID, "P")

	for _, id := range []uint{assignee.ID, member.ID} {
		if _, err := svc.AddMember(owner.ID, project.ID, id); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}

	task := createTask(t, svc, owner.ID, domain.CreateTaskInput{
		Name:       "t",
		ProjectID:  project.ID,
		AssignedTo: &assignee.ID,
	})

	status := models.StatusDone
	patch := domain.TaskPatch{Status: domain.Optional[string]{Set: true, Value: &status}}

	if _, err := svc.UpdateTask(member.ID, task.ID, patch); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("plain member update: err = %v, want ErrForbidden", err)
	}

	updated, err := svc.UpdateTask(assignee.ID, task.ID, patch)

	if err != nil {
		t.Fatalf("assignee update: %v", err)
	}

	if updated.Status != models.StatusDone {
		t.Fatalf("status = %q, want done", updated.Status)
	}

	if updated.AssignedTo == nil || *updated.AssignedTo != assignee.ID {
		t.Fatal("partial update touched assigned_to")
	}

	if _, err := svc.UpdateTask(owner.ID, task.ID, patch); err != nil {
		t.Fatalf("owner update: %v", err)
	}

	if _, err := svc.UpdateTask(owner.ID, task.ID+100, patch); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing task: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTaskOwnerOnly(t *testing.T) {
	svc, _ := newTestService(t)

	owner := registerUser(t, svc, "Alice", "alice@example.com")
	assignee := registerUser(t, svc, "Bob", "bob@example.com")
	project := createProject(t, svc, owner.ID, "P")

	if _, err := svc.AddMember(owner.ID, project.ID, assignee.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}

	task := createTask(t, svc, owner.ID, domain.CreateTaskInput{
		Name:       "t",
		ProjectID:  project.ID,
		AssignedTo: &assignee.ID,
	})

	// Assignee rights cover updates only.
	if err := svc.DeleteTask(assignee.ID, task.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("assignee delete: err = %v, want ErrForbidden", err)
	}

	if err := svc.DeleteTask(owner.ID, task.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	if err := svc.DeleteTask(owner.ID, task.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteProjectCascadesTasks(t *testing.T) {
	svc, _ := newTestService(t)

	owner := registerUser(t, svc, "Alice", "alice@example.com")
	project := createProject(t, svc, owner.ID, "P")

	var ids []uint

	for i := 0; i < 3; i++ {
		task := createTask(t, svc, owner.ID, domain.CreateTaskInput{Name: "t", ProjectID: project.ID})
		ids = append(ids, task.ID)
	}

	if err := svc.DeleteProject(project.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	if err := svc.DeleteProject(project.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}

	for _, id := range ids {
		if _, err := svc.UpdateTask(owner.ID, id, domain.TaskPatch{}); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("task %d survived project deletion: %v", id, err)
		}
	}
}
