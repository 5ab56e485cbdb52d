package store

import "github.com/tgienger/taskdesk/internal/api"

// Status is the lifecycle of one async operation family
type Status int

const (
	Idle Status = iota
	Loading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Op tracks one operation family. Err is set only while Status is Failed.
type Op struct {
	Status Status
	Err    string
}

func (o Op) Loading() bool { return o.Status == Loading }

func (o *Op) start() {
	o.Status = Loading
	o.Err = ""
}

func (o *Op) succeed() {
	o.Status = Succeeded
	o.Err = ""
}

func (o *Op) fail(err error) {
	o.Status = Failed
	o.Err = api.Message(err)
	if o.Err == "" {
		o.Err = "Something went wrong"
	}
}

// settle moves op to Succeeded or Failed depending on err
func (o *Op) settle(err error) {
	if err != nil {
		o.fail(err)
		return
	}
	o.succeed()
}
