package zkcli

import (
	"fmt"

	"github.com/go-zookeeper/zk"
)

// Op is one step of an atomic multi-operation transaction.
type Op interface {
	isOp()
	toNative() (any, error)
}

// CreateOp creates a node. TTL and container dispositions are not
// supported inside transactions by the native protocol.
type CreateOp struct {
	Path        string
	Data        []byte
	Disposition Disposition
	ACL         []ACL
}

// DeleteOp deletes a node, with -1 skipping the version check.
type DeleteOp struct {
	Path    string
	Version int32
}

// SetOp replaces node data, with -1 skipping the version check.
type SetOp struct {
	Path    string
	Data    []byte
	Version int32
}

// CheckOp asserts a node version without mutating anything.
type CheckOp struct {
	Path    string
	Version int32
}

func (CreateOp) isOp() {}
func (DeleteOp) isOp() {}
func (SetOp) isOp()    {}
func (CheckOp) isOp()  {}

func (op CreateOp) toNative() (any, error) {
	var flags int32
	switch op.Disposition {
	case Persistent:
	case PersistentSequential:
		flags = zk.FlagSequence
	case Ephemeral:
		flags = zk.FlagEphemeral
	case EphemeralSequential:
		flags = zk.FlagEphemeral | zk.FlagSequence
	default:
		return nil, fmt.Errorf(
			"zkcli: disposition %s not supported in a transaction", op.Disposition)
	}
	acl := op.ACL
	if acl == nil {
		acl = OpenACL(PermAll)
	}
	if len(acl) == 0 {
		return nil, ErrEmptyACL
	}
	return &zk.CreateRequest{
		Path:  op.Path,
		Data:  op.Data,
		Acl:   toNativeACL(acl),
		Flags: flags,
	}, nil
}

func (op DeleteOp) toNative() (any, error) {
	return &zk.DeleteRequest{Path: op.Path, Version: op.Version}, nil
}

func (op SetOp) toNative() (any, error) {
	return &zk.SetDataRequest{Path: op.Path, Data: op.Data, Version: op.Version}, nil
}

func (op CheckOp) toNative() (any, error) {
	return &zk.CheckVersionRequest{Path: op.Path, Version: op.Version}, nil
}

// Result is the successful outcome of one transaction step, positionally
// correlated with the submitted ops. CreatedPath is set for CreateOp and
// Status for SetOp.
type Result struct {
	Op          Op
	CreatedPath string
	Status      Status
}

// Problem is the failure detail of one transaction step, positionally
// correlated with the submitted ops. Err is nil for steps that would have
// succeeded had the transaction not been rolled back.
type Problem struct {
	Op  Op
	Err error
}

// TransactError reports a failed transaction. No step was applied.
type TransactError struct {
	Problems []Problem
}

func (e *TransactError) Error() string {
	for _, p := range e.Problems {
		if p.Err != nil {
			return fmt.Sprintf("zkcli: transaction failed: %s: %s", opPath(p.Op), Render(p.Err))
		}
	}
	return "zkcli: transaction failed"
}

func opPath(op Op) string {
	switch o := op.(type) {
	case CreateOp:
		return o.Path
	case DeleteOp:
		return o.Path
	case SetOp:
		return o.Path
	case CheckOp:
		return o.Path
	default:
		return ""
	}
}

// Transact submits the ordered ops atomically. On success the results are
// positionally correlated with the ops; on failure a *TransactError carries
// the positionally-correlated problems and nothing was applied.
func (c *Client) Transact(ops []Op) ([]Result, error) {
	if err := c.guardMutation(); err != nil {
		return nil, err
	}

	nativeOps := make([]any, 0, len(ops))
	for _, op := range ops {
		nop, err := op.toNative()
		if err != nil {
			return nil, err
		}
		nativeOps = append(nativeOps, nop)
	}

	responses, err := c.conn.Multi(nativeOps...)
	if err != nil {
		problems := make([]Problem, len(ops))
		for i := range ops {
			problems[i] = Problem{Op: ops[i]}
			if i < len(responses) {
				problems[i].Err = responses[i].Error
			}
		}
		if len(responses) == 0 {
			// transaction rejected as a whole, attribute the error to each step
			for i := range problems {
				problems[i].Err = err
			}
		}
		return nil, &TransactError{Problems: problems}
	}

	results := make([]Result, len(ops))
	for i, op := range ops {
		results[i] = Result{Op: op}
		if i < len(responses) {
			results[i].CreatedPath = responses[i].String
			results[i].Status = statusOf(responses[i].Stat)
		}
	}
	return results, nil
}
