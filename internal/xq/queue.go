package xq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ivantohelpyou/vikunja-mcp/internal/logging"
	"github.com/ivantohelpyou/vikunja-mcp/internal/vikunja"
)

// TaskService is the remote-service surface the queue needs. Satisfied
// by *vikunja.Client.
type TaskService interface {
	GetTask(ctx context.Context, taskID int64) (*vikunja.Task, error)
	UpdateTask(ctx context.Context, taskID int64, in vikunja.TaskInput) (*vikunja.Task, error)
	KanbanView(ctx context.Context, projectID int64) (*vikunja.View, error)
	ListBuckets(ctx context.Context, projectID, viewID int64) ([]vikunja.Bucket, error)
	CreateBucket(ctx context.Context, projectID, viewID int64, in vikunja.BucketInput) (*vikunja.Bucket, error)
	MoveTaskToBucket(ctx context.Context, projectID, viewID, bucketID, taskID int64) error
}

// Resolver maps instance names to handoff projects. Satisfied by
// *config.Store.
type Resolver interface {
	HandoffProject(instance string) (int64, error)
	HandoffInstances() ([]string, error)
	CurrentInstance() (string, error)
}

// ServiceFunc returns a TaskService for the named instance.
type ServiceFunc func(instance string) (TaskService, error)

// Item is a task in the exchange queue with its derived handoff state.
type Item struct {
	TaskID   int64      `json:"task_id"`
	Title    string     `json:"title"`
	State    State      `json:"state"`
	Claim    *Claim     `json:"claim,omitempty"`
	FiledTo  string     `json:"filed_to,omitempty"`
	Priority int        `json:"priority,omitempty"`
	DueDate  *time.Time `json:"due_date,omitempty"`
}

// Status is the result of checking one instance's exchange queue.
type Status struct {
	Instance  string `json:"instance"`
	ProjectID int64  `json:"project_id"`

	// Ready is true when all three queue buckets exist.
	Ready bool `json:"ready"`

	// Pending lists the items awaiting claim, in the remote board's
	// bucket order.
	Pending []Item `json:"pending"`

	// Counts holds the number of tasks per queue state.
	Counts map[State]int `json:"counts"`
}

// SetupResult reports what setup found and created.
type SetupResult struct {
	Instance  string          `json:"instance"`
	ProjectID int64           `json:"project_id"`
	ViewID    int64           `json:"view_id"`
	Buckets   map[State]int64 `json:"buckets"`
	Created   []string        `json:"created"`
	Existing  []string        `json:"existing"`
}

// Queue implements the exchange-queue state machine over a remote
// project's kanban board. It holds no private state: all coordination is
// mediated through the remote service, which is the only shared
// resource. Operations are short read-then-write sequences; nothing is
// retried automatically, and race losses surface as LostRace or
// AlreadyClaimed for the caller to handle.
type Queue struct {
	resolver Resolver
	service  ServiceFunc
	session  string
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Queue.
type Option func(*Queue)

// WithSession overrides the generated session identity used as the
// claim owner.
func WithSession(session string) Option {
	return func(q *Queue) { q.session = session }
}

// WithClock overrides the time source. Tests use this for deterministic
// claim timestamps.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// WithLogger sets the queue's logger.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) { q.logger = l }
}

// New creates a queue. Each queue carries a session identity (a fresh
// UUID unless overridden) that marks its claims.
func New(resolver Resolver, service ServiceFunc, opts ...Option) *Queue {
	q := &Queue{
		resolver: resolver,
		service:  service,
		session:  uuid.NewString(),
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Session returns the claim identity this queue writes.
func (q *Queue) Session() string {
	return q.session
}

// board is the resolved remote state of one instance's queue: the
// project, its kanban view, and the queue buckets found on it.
type board struct {
	projectID int64
	viewID    int64
	buckets   map[State]vikunja.Bucket
}

func (b *board) ready() bool {
	return len(b.buckets) == len(setupOrder)
}

// locate finds which queue bucket currently holds the task. Membership
// comes from the board listing, not from fields on the task itself.
func (b *board) locate(taskID int64) (State, bool) {
	for state, bucket := range b.buckets {
		for _, task := range bucket.Tasks {
			if task.ID == taskID {
				return state, true
			}
		}
	}
	return "", false
}

// resolveInstance normalizes an empty instance name to the configured
// current instance.
func (q *Queue) resolveInstance(op, instance string) (string, error) {
	if instance != "" {
		return instance, nil
	}
	current, err := q.resolver.CurrentInstance()
	if err != nil {
		return "", &Error{Kind: KindNotConfigured, Op: op, Err: err}
	}
	if current == "" {
		return "", &Error{Kind: KindNotConfigured, Op: op, Message: "no instance configured"}
	}
	return current, nil
}

// resolveBoard resolves the instance's handoff project and reads the
// current bucket layout. The returned board may be missing buckets;
// operations that need the full set check ready() themselves, so check
// can still report on a half-initialized queue.
func (q *Queue) resolveBoard(ctx context.Context, op, instance string) (TaskService, *board, error) {
	projectID, err := q.resolver.HandoffProject(instance)
	if err != nil {
		return nil, nil, &Error{Kind: KindNotConfigured, Op: op, Instance: instance, Err: err}
	}

	svc, err := q.service(instance)
	if err != nil {
		return nil, nil, &Error{Kind: KindNotConfigured, Op: op, Instance: instance, Err: err}
	}

	view, err := svc.KanbanView(ctx, projectID)
	if err != nil {
		if vikunja.IsNotFound(err) {
			return nil, nil, &Error{
				Kind: KindNotConfigured, Op: op, Instance: instance,
				Message: fmt.Sprintf("handoff project %d has no kanban view", projectID),
				Err:     err,
			}
		}
		return nil, nil, q.classify(op, instance, 0, err)
	}

	buckets, err := svc.ListBuckets(ctx, projectID, view.ID)
	if err != nil {
		return nil, nil, q.classify(op, instance, 0, err)
	}

	b := &board{
		projectID: projectID,
		viewID:    view.ID,
		buckets:   make(map[State]vikunja.Bucket, len(setupOrder)),
	}
	for _, bucket := range buckets {
		if state, ok := stateForBucket(bucket.Title); ok {
			b.buckets[state] = bucket
		}
	}
	return svc, b, nil
}

// classify maps a remote-service failure to the queue's error taxonomy.
func (q *Queue) classify(op, instance string, taskID int64, err error) error {
	e := &Error{Op: op, Instance: instance, TaskID: taskID, Err: err}
	switch {
	case vikunja.IsForbidden(err):
		e.Kind = KindInsufficientPermission
	case taskID != 0 && vikunja.IsNotFound(err):
		e.Kind = KindTaskNotFound
	default:
		e.Kind = KindRemoteUnavailable
	}
	return e
}

// Check reports the state of one instance's queue: whether its buckets
// exist and which items await claim, in the board's natural order. An
// empty pending list is a valid, non-error result. A half-initialized
// queue reports Ready=false rather than failing, so check stays usable
// as a diagnostic before setup has run.
func (q *Queue) Check(ctx context.Context, instance string) (*Status, error) {
	const op = "check"

	instance, err := q.resolveInstance(op, instance)
	if err != nil {
		return nil, err
	}
	_, b, err := q.resolveBoard(ctx, op, instance)
	if err != nil {
		return nil, err
	}

	status := &Status{
		Instance:  instance,
		ProjectID: b.projectID,
		Ready:     b.ready(),
		Counts:    make(map[State]int, len(setupOrder)),
	}
	for state, bucket := range b.buckets {
		status.Counts[state] = len(bucket.Tasks)
	}
	if handoff, ok := b.buckets[StateHandoff]; ok {
		status.Pending = make([]Item, 0, len(handoff.Tasks))
		for _, task := range handoff.Tasks {
			status.Pending = append(status.Pending, itemFromTask(&task, StateHandoff))
		}
	}

	q.logger.Debug("queue checked",
		logging.Operation(op),
		logging.Instance(instance),
		logging.Project(b.projectID),
		slog.Int("pending", len(status.Pending)),
		slog.Bool("ready", status.Ready))
	return status, nil
}

// CheckAll checks every instance that has a handoff project mapping.
func (q *Queue) CheckAll(ctx context.Context) ([]Status, error) {
	const op = "check"

	instances, err := q.resolver.HandoffInstances()
	if err != nil {
		return nil, &Error{Kind: KindNotConfigured, Op: op, Err: err}
	}
	if len(instances) == 0 {
		return nil, &Error{Kind: KindNotConfigured, Op: op, Message: "no instance has an exchange queue configured"}
	}

	statuses := make([]Status, 0, len(instances))
	for _, instance := range instances {
		status, err := q.Check(ctx, instance)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *status)
	}
	return statuses, nil
}

// Setup ensures the three queue buckets exist on the instance's handoff
// project, creating missing ones in a fixed order (Handoff, Review,
// Filed). Idempotent: existence is checked by bucket title before each
// create, so repeated runs converge instead of duplicating.
func (q *Queue) Setup(ctx context.Context, instance string) (*SetupResult, error) {
	const op = "setup"

	instance, err := q.resolveInstance(op, instance)
	if err != nil {
		return nil, err
	}
	svc, b, err := q.resolveBoard(ctx, op, instance)
	if err != nil {
		return nil, err
	}

	result := &SetupResult{
		Instance:  instance,
		ProjectID: b.projectID,
		ViewID:    b.viewID,
		Buckets:   make(map[State]int64, len(setupOrder)),
	}
	for _, state := range setupOrder {
		title := state.BucketTitle()
		if bucket, ok := b.buckets[state]; ok {
			result.Buckets[state] = bucket.ID
			result.Existing = append(result.Existing, title)
			continue
		}
		bucket, err := svc.CreateBucket(ctx, b.projectID, b.viewID, vikunja.BucketInput{Title: title})
		if err != nil {
			return nil, q.classify(op, instance, 0, err)
		}
		result.Buckets[state] = bucket.ID
		result.Created = append(result.Created, title)
	}

	q.logger.Info("queue setup complete",
		logging.Operation(op),
		logging.Instance(instance),
		logging.Project(b.projectID),
		slog.Int("created", len(result.Created)),
		slog.Int("existing", len(result.Existing)))
	return result, nil
}

// Claim takes ownership of a task in the Handoff bucket: it writes this
// session's claim marker and moves the task to Review. The remote
// per-task update is the serialization point; after writing, the task is
// re-read, and a foreign marker means a concurrent claimer won; the
// loser returns LostRace without further mutation.
func (q *Queue) Claim(ctx context.Context, instance string, taskID int64) (*Item, error) {
	const op = "claim"

	instance, err := q.resolveInstance(op, instance)
	if err != nil {
		return nil, err
	}
	svc, b, err := q.resolveBoard(ctx, op, instance)
	if err != nil {
		return nil, err
	}
	if !b.ready() {
		return nil, &Error{
			Kind: KindNotConfigured, Op: op, Instance: instance, TaskID: taskID,
			Message: "queue buckets missing, run setup_xq first",
		}
	}

	task, err := svc.GetTask(ctx, taskID)
	if err != nil {
		return nil, q.classify(op, instance, taskID, err)
	}
	if task.ProjectID != b.projectID {
		return nil, &Error{
			Kind: KindTaskNotFound, Op: op, Instance: instance, TaskID: taskID,
			Message: "task is not in the handoff project",
		}
	}

	// Precondition: in Handoff, unclaimed. Failing either leaves the
	// task untouched.
	state, inQueue := b.locate(taskID)
	if !inQueue || state != StateHandoff {
		return nil, &Error{
			Kind: KindAlreadyClaimed, Op: op, Instance: instance, TaskID: taskID,
			Message: fmt.Sprintf("task is not awaiting claim (state: %s)", stateOrUnknown(state, inQueue)),
		}
	}
	if existing := parseClaim(task.Description); existing != nil {
		return nil, &Error{
			Kind: KindAlreadyClaimed, Op: op, Instance: instance, TaskID: taskID,
			Message: fmt.Sprintf("already claimed by session %s at %s", existing.By, existing.At.Format(time.RFC3339)),
		}
	}

	claim := Claim{By: q.session, At: q.now()}
	desc := setClaim(task.Description, claim)
	if _, err := svc.UpdateTask(ctx, taskID, vikunja.TaskInput{Description: &desc}); err != nil {
		return nil, q.classify(op, instance, taskID, err)
	}
	if err := svc.MoveTaskToBucket(ctx, b.projectID, b.viewID, b.buckets[StateReview].ID, taskID); err != nil {
		return nil, q.classify(op, instance, taskID, err)
	}

	// Verify: re-read and make sure our marker survived. A foreign
	// marker means a competitor's write landed after ours.
	updated, err := svc.GetTask(ctx, taskID)
	if err != nil {
		return nil, q.classify(op, instance, taskID, err)
	}
	won := parseClaim(updated.Description)
	if won == nil || won.By != q.session {
		winner := "unknown"
		if won != nil {
			winner = won.By
		}
		return nil, &Error{
			Kind: KindLostRace, Op: op, Instance: instance, TaskID: taskID,
			Message: fmt.Sprintf("concurrent claim by session %s won", winner),
		}
	}

	q.logger.Info("task claimed",
		logging.Operation(op),
		logging.Instance(instance),
		logging.Task(taskID),
		slog.String("session", q.session))
	item := itemFromTask(updated, StateReview)
	return &item, nil
}

// Complete files a task this session claimed: it records the
// destination, clears the claim marker, marks the task done, and moves
// it to Filed. Only the claiming session may complete; there is no
// force override.
func (q *Queue) Complete(ctx context.Context, instance string, taskID int64, destination string) (*Item, error) {
	const op = "complete"

	instance, err := q.resolveInstance(op, instance)
	if err != nil {
		return nil, err
	}
	svc, b, err := q.resolveBoard(ctx, op, instance)
	if err != nil {
		return nil, err
	}
	if !b.ready() {
		return nil, &Error{
			Kind: KindNotConfigured, Op: op, Instance: instance, TaskID: taskID,
			Message: "queue buckets missing, run setup_xq first",
		}
	}

	task, err := svc.GetTask(ctx, taskID)
	if err != nil {
		return nil, q.classify(op, instance, taskID, err)
	}

	// Ownership check: in Review, carrying this session's marker.
	state, inQueue := b.locate(taskID)
	if !inQueue || state != StateReview {
		return nil, &Error{
			Kind: KindNotClaimedByCaller, Op: op, Instance: instance, TaskID: taskID,
			Message: fmt.Sprintf("task is not under review (state: %s)", stateOrUnknown(state, inQueue)),
		}
	}
	claim := parseClaim(task.Description)
	if claim == nil || claim.By != q.session {
		owner := "nobody"
		if claim != nil {
			owner = "session " + claim.By
		}
		return nil, &Error{
			Kind: KindNotClaimedByCaller, Op: op, Instance: instance, TaskID: taskID,
			Message: fmt.Sprintf("claimed by %s, not this session", owner),
		}
	}

	filedAt := q.now()
	desc := setFiled(clearClaim(task.Description), destination)
	desc += filingFooter(destination, filedAt)
	if _, err := svc.UpdateTask(ctx, taskID, vikunja.TaskInput{
		Description: &desc,
		Done:        vikunja.Ptr(true),
	}); err != nil {
		return nil, q.classify(op, instance, taskID, err)
	}
	if err := svc.MoveTaskToBucket(ctx, b.projectID, b.viewID, b.buckets[StateFiled].ID, taskID); err != nil {
		return nil, q.classify(op, instance, taskID, err)
	}

	q.logger.Info("task filed",
		logging.Operation(op),
		logging.Instance(instance),
		logging.Task(taskID),
		slog.String("destination", destination))
	return &Item{
		TaskID:  taskID,
		Title:   task.Title,
		State:   StateFiled,
		FiledTo: destination,
	}, nil
}

func itemFromTask(task *vikunja.Task, state State) Item {
	item := Item{
		TaskID:   task.ID,
		Title:    task.Title,
		State:    state,
		Claim:    parseClaim(task.Description),
		FiledTo:  parseFiled(task.Description),
		Priority: task.Priority,
	}
	if !task.DueDate.IsZero() {
		due := task.DueDate
		item.DueDate = &due
	}
	return item
}

func stateOrUnknown(state State, inQueue bool) string {
	if !inQueue {
		return "outside queue buckets"
	}
	return string(state)
}
