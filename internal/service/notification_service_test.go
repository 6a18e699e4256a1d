package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/messaging"
	"github.com/yourusername/project-hub/internal/repository/inmemory"
	"github.com/yourusername/project-hub/pkg/logger"
)

func newNotificationFixture() (*NotificationService, *inmemory.NotificationRepository) {
	repo := inmemory.NewNotificationRepository()
	return NewNotificationService(repo, logger.NewNop()), repo
}

func TestNotificationServiceHandleTaskEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("assignees notified, actor skipped", func(t *testing.T) {
		svc, _ := newNotificationFixture()
		event := &messaging.TaskEvent{
			ID:        "task-1",
			Title:     "Fix login",
			Status:    "in_progress",
			Assignees: []string{"user-a", "user-b"},
			ActorID:   "user-a",
		}
		require.NoError(t, svc.HandleTaskEvent(ctx, messaging.EventTypeTaskTransitioned, event))

		actorActor := domain.Actor{ID: "user-a", Role: domain.UserRoleMember}
		otherActor := domain.Actor{ID: "user-b", Role: domain.UserRoleMember}

		own, err := svc.ListByUser(ctx, actorActor, 20, 0)
		require.NoError(t, err)
		assert.Empty(t, own)

		others, err := svc.ListByUser(ctx, otherActor, 20, 0)
		require.NoError(t, err)
		require.Len(t, others, 1)
		assert.Equal(t, domain.NotificationTypeTaskTransitioned, others[0].Type)
		assert.Equal(t, "task-1", others[0].EntityID)
		assert.Contains(t, others[0].Content, "Fix login")
	})

	t.Run("created event maps to assignment", func(t *testing.T) {
		svc, _ := newNotificationFixture()
		event := &messaging.TaskEvent{
			ID:        "task-2",
			Title:     "Write docs",
			Assignees: []string{"user-b"},
			ActorID:   "manager-1",
		}
		require.NoError(t, svc.HandleTaskEvent(ctx, messaging.EventTypeTaskCreated, event))

		got, err := svc.ListByUser(ctx, domain.Actor{ID: "user-b", Role: domain.UserRoleMember}, 20, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, domain.NotificationTypeTaskAssigned, got[0].Type)
	})

	t.Run("unknown event type ignored", func(t *testing.T) {
		svc, _ := newNotificationFixture()
		event := &messaging.TaskEvent{ID: "task-3", Assignees: []string{"user-b"}}
		require.NoError(t, svc.HandleTaskEvent(ctx, "task_touched", event))

		got, err := svc.ListByUser(ctx, domain.Actor{ID: "user-b", Role: domain.UserRoleMember}, 20, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestNotificationServiceHandleSprintEvent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNotificationFixture()

	event := &messaging.SprintEvent{
		ID:           "sprint-1",
		Title:        "Iteration one",
		SprintNumber: 1,
		ProjectID:    "project-1",
		ActorID:      "manager-1",
	}
	require.NoError(t, svc.HandleSprintEvent(ctx, messaging.EventTypeSprintCreated, event, []string{"manager-1", "user-b"}))

	manager, err := svc.ListByUser(ctx, domain.Actor{ID: "manager-1", Role: domain.UserRoleManager}, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, manager)

	member, err := svc.ListByUser(ctx, domain.Actor{ID: "user-b", Role: domain.UserRoleMember}, 20, 0)
	require.NoError(t, err)
	require.Len(t, member, 1)
	assert.Equal(t, domain.NotificationTypeSprintStarted, member[0].Type)
	assert.Contains(t, member[0].Content, "Iteration one")
}

func TestNotificationServiceReadFlow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNotificationFixture()
	actor := domain.Actor{ID: "user-b", Role: domain.UserRoleMember}

	event := &messaging.CommentEvent{
		CommentID: "comment-1",
		TaskID:    "task-1",
		TaskTitle: "Fix login",
		UserID:    "user-a",
	}
	require.NoError(t, svc.HandleCommentEvent(ctx, event, []string{"user-a", "user-b"}))

	unread, err := svc.CountUnread(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	list, err := svc.ListByUser(ctx, actor, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.MarkRead(ctx, actor, list[0].ID))

	unread, err = svc.CountUnread(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, 0, unread)

	t.Run("foreign notification not markable", func(t *testing.T) {
		stranger := domain.Actor{ID: "user-c", Role: domain.UserRoleMember}
		err := svc.MarkRead(ctx, stranger, list[0].ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestNotificationServiceNotifyTaskDue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNotificationFixture()

	task := &domain.Task{
		ID:        "task-1",
		Title:     "Deploy release",
		Assignees: []string{"user-a", "user-b"},
	}
	require.NoError(t, svc.NotifyTaskDue(ctx, task))

	for _, userID := range task.Assignees {
		got, err := svc.ListByUser(ctx, domain.Actor{ID: userID, Role: domain.UserRoleMember}, 20, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, domain.NotificationTypeTaskDue, got[0].Type)
	}
}
