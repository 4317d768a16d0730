package http

import (
	"context"
	"errors"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/contentmigrate/internal/database"
	"github.com/mrlokans/contentmigrate/internal/database/audit"
	"github.com/mrlokans/contentmigrate/internal/entities"
	"github.com/mrlokans/contentmigrate/internal/services"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakePosts struct {
	posts []services.PostDocument
	err   error
}

func (f *fakePosts) ListPosts(_ context.Context, limit, offset int) ([]services.PostDocument, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	end := offset + limit
	if end > len(f.posts) {
		end = len(f.posts)
	}
	if offset > end {
		offset = end
	}
	return f.posts[offset:end], int64(len(f.posts)), nil
}

func (f *fakePosts) GetPostBySlug(_ context.Context, slug string) (*services.PostDocument, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, database.ErrNotFound
}

type fakeQueue struct {
	enqueued []backlite.Task
	status   backlite.TaskStatus
	err      error
}

func (f *fakeQueue) Enqueue(task backlite.Task) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.enqueued = append(f.enqueued, task)
	return "task-42", nil
}

func (f *fakeQueue) Status(context.Context, string) (backlite.TaskStatus, error) {
	return f.status, nil
}

type fakeRuns struct {
	runs []entities.ImportRun
	err  error
}

func (f *fakeRuns) List(_ context.Context, limit int) ([]entities.ImportRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.runs) {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func (f *fakeRuns) GetByTaskID(_ context.Context, taskID string) (*entities.ImportRun, error) {
	for _, r := range f.runs {
		if r.TaskID == taskID {
			return &r, nil
		}
	}
	return nil, database.ErrNotFound
}

type fakeAudit struct {
	events     []entities.AuditEvent
	lastFilter audit.Filter
	converts   []string
	failReads  bool
}

func (f *fakeAudit) GetEvents(filter audit.Filter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	if f.failReads {
		return nil, 0, errors.New("db closed")
	}
	f.lastFilter = filter
	return f.events, int64(len(f.events)), nil
}

func (f *fakeAudit) LogConvert(mode string, _ int) {
	f.converts = append(f.converts, mode)
}
