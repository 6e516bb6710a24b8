package zkcli

// Future is the handle returned by asynchronous operations. The value is
// computed on its own goroutine; Wait blocks until completion and Done
// allows select-based composition.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func goFuture[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn()
	}()
	return f
}

// Done is closed once the operation has completed.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until completion and returns the outcome.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// GetResult is the outcome of an asynchronous Get.
type GetResult struct {
	Data   []byte
	Status Status
}

// ExistsResult is the outcome of an asynchronous Exists.
type ExistsResult struct {
	Status Status
	Exists bool
}

// ChildrenResult is the outcome of an asynchronous Children.
type ChildrenResult struct {
	Children []string
	Status   Status
}

// ACLResult is the outcome of an asynchronous GetACL.
type ACLResult struct {
	ACL    []ACL
	Status Status
}

func (c *Client) GetAsync(path string) *Future[GetResult] {
	return goFuture(func() (GetResult, error) {
		data, status, err := c.Get(path)
		return GetResult{Data: data, Status: status}, err
	})
}

func (c *Client) SetAsync(path string, data []byte, version int32) *Future[Status] {
	return goFuture(func() (Status, error) {
		return c.Set(path, data, version)
	})
}

func (c *Client) CreateAsync(
	path string, data []byte, disposition Disposition, acl []ACL,
) *Future[string] {
	return goFuture(func() (string, error) {
		return c.Create(path, data, disposition, 0, acl)
	})
}

func (c *Client) DeleteAsync(path string, version int32) *Future[struct{}] {
	return goFuture(func() (struct{}, error) {
		return struct{}{}, c.Delete(path, version)
	})
}

func (c *Client) ExistsAsync(path string) *Future[ExistsResult] {
	return goFuture(func() (ExistsResult, error) {
		status, ok, err := c.Exists(path)
		return ExistsResult{Status: status, Exists: ok}, err
	})
}

func (c *Client) ChildrenAsync(path string) *Future[ChildrenResult] {
	return goFuture(func() (ChildrenResult, error) {
		children, status, err := c.Children(path)
		return ChildrenResult{Children: children, Status: status}, err
	})
}

func (c *Client) GetACLAsync(path string) *Future[ACLResult] {
	return goFuture(func() (ACLResult, error) {
		acl, status, err := c.GetACL(path)
		return ACLResult{ACL: acl, Status: status}, err
	})
}
