package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"betyaClient/internal/api"
	"betyaClient/internal/identity"
	"betyaClient/internal/progress"
	"betyaClient/internal/session"
	"betyaClient/internal/types/challenge"
	progresstypes "betyaClient/internal/types/progress"
)

// ErrChallengeEnded is returned when a chart refresh is requested after a
// time-bound challenge's end date has passed.
var ErrChallengeEnded = errors.New("challenge already ended")

// ErrHistoryOutsideWindow means the service reported a completion date past
// the visible window; the chart is left as it was.
var ErrHistoryOutsideWindow = errors.New("history extends past the challenge end")

type ToggleOutcome int

const (
	// ToggleApplied: the optimistic value was confirmed by the service.
	ToggleApplied ToggleOutcome = iota
	// ToggleRolledBackAdminReadOnly: the caller is a view-only observer;
	// the local value was reset to what the service reported.
	ToggleRolledBackAdminReadOnly
	// ToggleRolledBackError: the service or the network rejected the
	// mutation; the local value was restored to the pre-toggle one.
	ToggleRolledBackError
	// ToggleSuperseded: a newer toggle on the same item started while this
	// one was in flight, so this response was discarded.
	ToggleSuperseded
)

// ToggleResult is the settled outcome of one optimistic toggle.
type ToggleResult struct {
	Outcome ToggleOutcome
	Value   bool
	Message string
}

type itemKind int

const (
	taskItem itemKind = iota
	subtaskItem
)

type itemKey struct {
	kind itemKind
	id   int
}

// ChallengeView is the derived state for one challenge-detail session: who
// may edit, the done mirrors, task percentages and the dense chart series
// per task. The snapshot types inside are immutable; only the done mirrors
// move, optimistically, until the next wholesale reload.
type ChallengeView struct {
	Challenge *challenge.Challenge
	Active    []challenge.Participant
	UserID    int
	CanEdit   bool
	Colors    map[int]string
}

// ProgressService reconciles a challenge's static definition with the
// signed-in user's completion records and each task's chart series. It owns
// the optimistic local mirror of done flags.
type ProgressService struct {
	api   *api.Client
	store session.Store
	log   *zap.Logger

	// today is injectable for tests; defaults to the local calendar date.
	today func() string

	mu          sync.Mutex
	subtaskDone map[int]bool
	taskDone    map[int]bool
	seq         map[itemKey]uint64
	series      map[int][]progress.SeriesPoint
}

func NewProgressService(apiClient *api.Client, store session.Store, log *zap.Logger) *ProgressService {
	return &ProgressService{
		api:         apiClient,
		store:       store,
		log:         log,
		today:       progress.Today,
		subtaskDone: make(map[int]bool),
		taskDone:    make(map[int]bool),
		seq:         make(map[itemKey]uint64),
		series:      make(map[int][]progress.SeriesPoint),
	}
}

// LoadChallenge fetches the signed-in user's done state for every task and
// subtask plus each task's history, rebuilds the dense series, and replaces
// the local mirrors wholesale. Individual fetch failures are logged and the
// item left at its zero value, matching how the screen degrades; session
// expiry aborts the load.
func (s *ProgressService) LoadChallenge(ctx context.Context, ch *challenge.Challenge) (*ChallengeView, error) {
	userID := s.currentUserID(ctx)
	active := ch.ActiveParticipants()

	subtaskDone := make(map[int]bool)
	taskDone := make(map[int]bool)
	series := make(map[int][]progress.SeriesPoint)

	for _, task := range ch.DailyTasks {
		for _, st := range task.Subtasks {
			done, err := s.api.SubtaskState(ctx, st.ID)
			if err != nil {
				if errors.Is(err, api.ErrSessionExpired) {
					return nil, err
				}
				s.log.Warn("subtask state fetch failed", zap.Int("subtask_id", st.ID), zap.Error(err))
				continue
			}
			subtaskDone[st.ID] = done
		}

		if len(task.Subtasks) == 0 {
			done, err := s.api.TaskState(ctx, task.ID)
			if err != nil {
				if errors.Is(err, api.ErrSessionExpired) {
					return nil, err
				}
				s.log.Warn("task state fetch failed", zap.Int("task_id", task.ID), zap.Error(err))
			} else {
				taskDone[task.ID] = done
			}
		}

		history, err := s.api.TaskHistory(ctx, task.ID)
		if err != nil {
			if errors.Is(err, api.ErrSessionExpired) {
				return nil, err
			}
			s.log.Warn("history fetch failed", zap.Int("task_id", task.ID), zap.Error(err))
			continue
		}
		start, end := progress.Window(ch, history, s.today())
		series[task.ID] = progress.BuildSeries(start, end, active, history)
	}

	s.mu.Lock()
	s.subtaskDone = subtaskDone
	s.taskDone = taskDone
	s.series = series
	s.mu.Unlock()

	return &ChallengeView{
		Challenge: ch,
		Active:    active,
		UserID:    userID,
		CanEdit:   progress.CanEdit(ch, active, userID),
		Colors:    progress.AssignColors(active, userID),
	}, nil
}

// TaskPercent derives the current completion percent for a task from the
// local mirrors.
func (s *ProgressService) TaskPercent(task challenge.DailyTask) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progress.TaskCompletionPercent(task, s.subtaskDone, s.taskDone)
}

// SubtaskDone reports the mirrored done flag for a subtask.
func (s *ProgressService) SubtaskDone(subtaskID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtaskDone[subtaskID]
}

// TaskDone reports the mirrored done flag for a direct-completion task.
func (s *ProgressService) TaskDone(taskID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskDone[taskID]
}

// Series returns the dense chart series for a task, ascending by date.
func (s *ProgressService) Series(taskID int) []progress.SeriesPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.series[taskID]
}

// ToggleSubtask optimistically flips a subtask's done flag, sends the
// mutation, and settles per the response: success keeps the optimistic
// value and refreshes the owning task's series; admin_readonly and errors
// roll back. A newer toggle on the same subtask supersedes this one.
func (s *ProgressService) ToggleSubtask(ctx context.Context, ch *challenge.Challenge, subtaskID int) (*ToggleResult, error) {
	refreshTaskID := 0
	if task := ch.TaskForSubtask(subtaskID); task != nil {
		refreshTaskID = task.ID
	}
	return s.toggle(ctx, ch, itemKey{subtaskItem, subtaskID}, refreshTaskID,
		func(ctx context.Context, done bool) (*progresstypes.UpdateResponse, error) {
			return s.api.SetSubtaskState(ctx, subtaskID, done)
		})
}

// ToggleTask is ToggleSubtask for tasks without subtasks.
func (s *ProgressService) ToggleTask(ctx context.Context, ch *challenge.Challenge, taskID int) (*ToggleResult, error) {
	return s.toggle(ctx, ch, itemKey{taskItem, taskID}, taskID,
		func(ctx context.Context, done bool) (*progresstypes.UpdateResponse, error) {
			return s.api.SetTaskState(ctx, taskID, done)
		})
}

func (s *ProgressService) toggle(
	ctx context.Context,
	ch *challenge.Challenge,
	key itemKey,
	refreshTaskID int,
	send func(ctx context.Context, done bool) (*progresstypes.UpdateResponse, error),
) (*ToggleResult, error) {
	s.mu.Lock()
	mirror := s.mirror(key.kind)
	current := mirror[key.id]
	optimistic := !current
	mirror[key.id] = optimistic
	s.seq[key]++
	token := s.seq[key]
	s.mu.Unlock()

	resp, err := send(ctx, optimistic)

	s.mu.Lock()
	if s.seq[key] != token {
		value := mirror[key.id]
		s.mu.Unlock()
		return &ToggleResult{Outcome: ToggleSuperseded, Value: value}, nil
	}

	if err != nil {
		mirror[key.id] = current
		s.mu.Unlock()

		if errors.Is(err, api.ErrSessionExpired) {
			return nil, err
		}
		message := "connection error, progress not saved"
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			message = apiErr.Message
		}
		s.log.Warn("toggle rolled back", zap.Int("item_id", key.id), zap.Error(err))
		return &ToggleResult{Outcome: ToggleRolledBackError, Value: current, Message: message}, nil
	}

	if resp.Status == progresstypes.StatusAdminReadOnly {
		mirror[key.id] = resp.Done
		s.mu.Unlock()

		message := "read-only view"
		if resp.Message != nil {
			message = *resp.Message
		}
		return &ToggleResult{Outcome: ToggleRolledBackAdminReadOnly, Value: resp.Done, Message: message}, nil
	}
	s.mu.Unlock()

	if refreshTaskID != 0 {
		if _, err := s.RefreshSeries(ctx, ch, refreshTaskID); err != nil {
			s.log.Warn("series refresh failed", zap.Int("task_id", refreshTaskID), zap.Error(err))
		}
	}
	return &ToggleResult{Outcome: ToggleApplied, Value: optimistic}, nil
}

// RefreshSeries re-fetches one task's sparse history and rebuilds its dense
// series with the same window policy the initial load uses. The chart is
// left untouched when the challenge has already ended or the history runs
// past the visible window.
func (s *ProgressService) RefreshSeries(ctx context.Context, ch *challenge.Challenge, taskID int) ([]progress.SeriesPoint, error) {
	today := s.today()

	chEnd := ""
	if ch.EndDate != nil {
		chEnd = progress.NormalizeDate(*ch.EndDate)
	}
	if ch.TimeBound && chEnd != "" && today > chEnd {
		return nil, ErrChallengeEnded
	}

	history, err := s.api.TaskHistory(ctx, taskID)
	if err != nil {
		return nil, err
	}

	start, end := progress.Window(ch, history, today)
	if last := progress.LatestHistoryDate(history); last != "" && last > end {
		return nil, ErrHistoryOutsideWindow
	}

	rebuilt := progress.BuildSeries(start, end, ch.ActiveParticipants(), history)

	s.mu.Lock()
	s.series[taskID] = rebuilt
	s.mu.Unlock()
	return rebuilt, nil
}

func (s *ProgressService) mirror(kind itemKind) map[int]bool {
	if kind == subtaskItem {
		return s.subtaskDone
	}
	return s.taskDone
}

func (s *ProgressService) currentUserID(ctx context.Context) int {
	sess, err := s.store.Load(ctx)
	if err != nil {
		return 0
	}
	return identity.UserIDFromToken(sess.Token)
}
