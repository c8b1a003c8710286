package domain

import (
	"encoding/json"
	"time"

	"github.com/Arhamhir/Taskflow/internal/models"
)

// Optional is a JSON field that remembers whether it appeared in the request
// body. Set is false when the key was omitted; Value is nil when the key was
// present with an explicit null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// TaskPatch is a partial task update. Only fields present in the request body
// are applied; an explicit null clears nullable fields.
type TaskPatch struct {
	Name        Optional[string]    `json:"name"`
	Description Optional[string]    `json:"description"`
	AssignedTo  Optional[uint]      `json:"assigned_to"`
	Status      Optional[string]    `json:"status"`
	Deadline    Optional[time.Time] `json:"deadline"`
}

// Apply merges the patch into task field by field. Non-nullable fields ignore
// an explicit null rather than blanking the column.
func (p TaskPatch) Apply(task *models.Task) {
	if p.Name.Set && p.Name.Value != nil {
		task.Name = *p.Name.Value
	}
	if p.Description.Set {
		if p.Description.Value != nil {
			task.Description = *p.Description.Value
		} else {
			task.Description = ""
		}
	}
	if p.AssignedTo.Set {
		task.AssignedTo = p.AssignedTo.Value
	}
	if p.Status.Set && p.Status.Value != nil {
		task.Status = *p.Status.Value
	}
	if p.Deadline.Set {
		task.Deadline = p.Deadline.Value
	}
}
