package webapp

import (
	"context"
	"html/template"
	"sync"
)

// Task is the work started by one navigation or one form submit. All of its
// writes carry the generation it was started under.
type Task struct {
	Path string

	generation uint64
	session    *Session
	ctx        context.Context
	wg         sync.WaitGroup
}

func newTask(session *Session, ctx context.Context, path string, generation uint64) *Task {
	return &Task{
		Path:       path,
		generation: generation,
		session:    session,
		ctx:        ctx,
	}
}

// Go runs fn in the background as part of the task
func (task *Task) Go(fn func(ctx context.Context)) {
	task.wg.Add(1)
	go func() {
		defer task.wg.Done()
		fn(task.ctx)
	}()
}

// Wait blocks until every background step of the task has finished
func (task *Task) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		task.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stale reports whether a newer navigation has replaced this one
func (task *Task) Stale() bool {
	return task.session.view.Generation() != task.generation
}

// Render replaces the whole mount point
func (task *Task) Render(markup template.HTML, err error) bool {
	if err != nil {
		task.session.client.logger.Errorf("Render %s failed: %v", task.Path, err)
		return false
	}
	return task.session.view.Replace(task.generation, markup)
}

// RenderRegion replaces one sub-region of the current page
func (task *Task) RenderRegion(name string, markup template.HTML, err error) bool {
	if err != nil {
		task.session.client.logger.Errorf("Render region %s on %s failed: %v", name, task.Path, err)
		return false
	}
	return task.session.view.ReplaceRegion(task.generation, name, markup)
}

func (task *Task) SetLoading(name string, loading bool) {
	task.session.view.SetLoading(task.generation, name, loading)
}

// ShowError replaces the mount point with the red error banner
func (task *Task) ShowError(err error) {
	payload := asErrorPayload(err)
	if task.Render(renderError(ColorRed, payload.Title, payload.Message)) {
		task.session.unwire(task.generation)
	}
}

// Wire registers the submit handler of the page this task rendered
func (task *Task) Wire(handler SubmitHandler) {
	task.session.wire(task.generation, task.Path, handler)
}
