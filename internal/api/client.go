package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dalfonso89/currency-converter/internal/webapp"
)

// ServeClient serves the entry page for any path the proxy does not own.
// The client session is run to completion for the request path, and a
// form post is handed to the page's submit handler before rendering.
func (handlers *Handlers) ServeClient(context *gin.Context) {
	if handlers.client == nil {
		context.Status(http.StatusNotFound)
		return
	}

	requestContext := context.Request.Context()
	session := handlers.client.NewSession()
	defer session.Close()

	path := context.Request.URL.Path
	handlers.settle(requestContext, path, session.Load(requestContext, path))

	if context.Request.Method == http.MethodPost {
		if err := context.Request.ParseForm(); err != nil {
			handlers.logger.Warnf("Unreadable form posted to %s: %v", path, err)
		} else if task, err := session.Submit(requestContext, context.Request.PostForm); err == nil {
			handlers.settle(requestContext, path, task)
		} else if !errors.Is(err, webapp.ErrNoForm) {
			handlers.logger.Warnf("Submit on %s failed: %v", path, err)
		}
	}

	context.Header("Content-Type", "text/html; charset=utf-8")
	context.Status(http.StatusOK)
	if err := webapp.RenderDocument(context.Writer, session.View()); err != nil {
		handlers.logger.Errorf("Failed to render entry page for %s: %v", path, err)
	}
}

func (handlers *Handlers) settle(ctx context.Context, path string, task *webapp.Task) {
	if err := task.Wait(ctx); err != nil {
		handlers.logger.Warnf("Client render of %s did not settle: %v", path, err)
	}
}
