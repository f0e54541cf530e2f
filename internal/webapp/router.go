package webapp

// Handler renders one route into the task's view
type Handler func(task *Task)

// NotFoundHandler renders the view for a path no route matched
type NotFoundHandler func(task *Task, path string)

// Router resolves paths to handlers by exact match
type Router struct {
	routes   map[string]Handler
	notFound NotFoundHandler
}

func NewRouter(notFound NotFoundHandler) *Router {
	return &Router{
		routes:   make(map[string]Handler),
		notFound: notFound,
	}
}

// Add registers handler for path
func (router *Router) Add(path string, handler Handler) {
	router.routes[path] = handler
}

// Dispatch runs the handler registered for task.Path, or the not-found handler
func (router *Router) Dispatch(task *Task) {
	if handler, ok := router.routes[task.Path]; ok {
		handler(task)
		return
	}
	if router.notFound != nil {
		router.notFound(task, task.Path)
	}
}
