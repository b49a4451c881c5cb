package vikunja

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a client pointed at a handler-backed test server.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token")
}

func TestClientSendsAuthHeader(t *testing.T) {
	var gotAuth, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]Project{})
	})

	_, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "/api/v1/projects", gotPath)
}

func TestClientDecodesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "The task does not exist."})
	})

	_, err := c.GetTask(context.Background(), 123)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "The task does not exist.", apiErr.Message)
	assert.Equal(t, "get_task", apiErr.Op)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsForbidden(err))
}

func TestIsForbidden(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		_, err := c.GetTask(context.Background(), 1)
		assert.True(t, IsForbidden(err), "status %d", status)
	}
}

func TestListTasksDefaultFilter(t *testing.T) {
	var gotFilter string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("filter")
		json.NewEncoder(w).Encode([]Task{{ID: 1, Title: "open task"}})
	})

	tasks, err := c.ListTasks(context.Background(), 5, ListTasksOptions{})
	require.NoError(t, err)
	assert.Equal(t, "done = false", gotFilter)
	require.Len(t, tasks, 1)
	assert.Equal(t, "open task", tasks[0].Title)

	// IncludeDone drops the default filter.
	_, err = c.ListTasks(context.Background(), 5, ListTasksOptions{IncludeDone: true})
	require.NoError(t, err)
	assert.Empty(t, gotFilter)
}

func TestUnsetDueDateDecodesToZeroTime(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 7, "title": "t", "due_date": "0001-01-01T00:00:00Z", "project_id": 1}`))
	})

	task, err := c.GetTask(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, task.DueDate.IsZero())
}

func TestUpdateTaskSendsOnlySetFields(t *testing.T) {
	var gotBody map[string]interface{}
	var gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(Task{ID: 7, Priority: 4})
	})

	_, err := c.UpdateTask(context.Background(), 7, TaskInput{Priority: Ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, map[string]interface{}{"priority": float64(4)}, gotBody)
}

func TestTaskInputClearsDueDate(t *testing.T) {
	in := TaskInput{DueDate: Ptr(time.Time{})}
	assert.Equal(t, zeroDate, in.payload()["due_date"])

	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in = TaskInput{DueDate: &due}
	assert.Equal(t, "2026-03-01T12:00:00Z", in.payload()["due_date"])
}

func TestCreateTaskUsesPut(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(Task{ID: 1, Title: "new"})
	})

	task, err := c.CreateTask(context.Background(), 9, TaskInput{Title: Ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/v1/projects/9/tasks", gotPath)
	assert.Equal(t, int64(1), task.ID)
}

func TestDeleteTaskHandlesNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.DeleteTask(context.Background(), 3))
}

func TestKanbanView(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]View{
			{ID: 1, ProjectID: 5, ViewKind: ViewKindList},
			{ID: 2, ProjectID: 5, ViewKind: ViewKindKanban},
		})
	})

	view, err := c.KanbanView(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.ID)
}

func TestKanbanViewMissing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]View{{ID: 1, ViewKind: ViewKindList}})
	})

	_, err := c.KanbanView(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMoveTaskToBucketPayload(t *testing.T) {
	var gotBody map[string]interface{}
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	})

	err := c.MoveTaskToBucket(context.Background(), 5, 2, 8, 42)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/projects/5/views/2/buckets/8/tasks", gotPath)
	assert.Equal(t, map[string]interface{}{
		"task_id":         float64(42),
		"bucket_id":       float64(8),
		"project_view_id": float64(2),
		"project_id":      float64(5),
	}, gotBody)
}

func TestCreateRelation(t *testing.T) {
	var gotBody map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	})

	err := c.CreateRelation(context.Background(), 1, 2, RelationBlocking)
	require.NoError(t, err)
	assert.Equal(t, "blocking", gotBody["relation_kind"])
	assert.Equal(t, float64(2), gotBody["other_task_id"])
}
