package events

import (
	"errors"
	"fmt"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/quillworks/quill/api"
)

var (
	producedJSON   = []byte(`{"type":"produced"}`)
	critiquedJSON  = []byte(`{"type":"critiqued"}`)
	refinedJSON    = []byte(`{"type":"refined"}`)
	checkedJSON    = []byte(`{"type":"checked"}`)
	terminatedJSON = []byte(`{"type":"terminated"}`)
	errorJSON      = []byte(`{"type":"error"}`)
)

// Event is the base interface for all run events.
type Event interface {
	runEvent()
}

// Produced is emitted once per run, after the generator created the initial
// artifact.
type Produced struct {
	RunID     uuid.UUID       `json:"run_id"`
	Sender    string          `json:"sender,omitempty"`
	Artifact  string          `json:"artifact"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Produced) runEvent() {}

// MarshalJSON implements custom JSON marshaling for Produced
func (p Produced) MarshalJSON() ([]byte, error) {
	result := producedJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", p.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "artifact", p.Artifact)
	if err != nil {
		return nil, err
	}

	return setCommonFields(result, p.Sender, p.Timestamp, p.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Produced
func (p *Produced) UnmarshalJSON(data []byte) error {
	body, err := eventBody(data, "produced")
	if err != nil {
		return err
	}

	if err := p.RunID.UnmarshalText([]byte(body.runID)); err != nil {
		return fmt.Errorf("invalid run_id: %w", err)
	}

	artifact := gjson.GetBytes(data, "artifact")
	if !artifact.Exists() {
		return fmt.Errorf("missing required field 'artifact'")
	}
	p.Artifact = artifact.String()

	p.Sender = body.sender
	p.Timestamp = body.timestamp
	p.Meta = body.meta
	return nil
}

// Critiqued is emitted once per loop iteration with the critic's feedback.
// The feedback may be the completion sentinel; Terminated reports whether it
// ended the loop.
type Critiqued struct {
	RunID     uuid.UUID       `json:"run_id"`
	Iteration int             `json:"iteration"`
	Sender    string          `json:"sender,omitempty"`
	Feedback  string          `json:"feedback"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Critiqued) runEvent() {}

// MarshalJSON implements custom JSON marshaling for Critiqued
func (c Critiqued) MarshalJSON() ([]byte, error) {
	result := critiquedJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", c.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "iteration", c.Iteration)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "feedback", c.Feedback)
	if err != nil {
		return nil, err
	}

	return setCommonFields(result, c.Sender, c.Timestamp, c.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Critiqued
func (c *Critiqued) UnmarshalJSON(data []byte) error {
	body, err := eventBody(data, "critiqued")
	if err != nil {
		return err
	}

	if err := c.RunID.UnmarshalText([]byte(body.runID)); err != nil {
		return fmt.Errorf("invalid run_id: %w", err)
	}

	feedback := gjson.GetBytes(data, "feedback")
	if !feedback.Exists() {
		return fmt.Errorf("missing required field 'feedback'")
	}
	c.Feedback = feedback.String()
	c.Iteration = int(gjson.GetBytes(data, "iteration").Int())

	c.Sender = body.sender
	c.Timestamp = body.timestamp
	c.Meta = body.meta
	return nil
}

// Refined is emitted after a refine step replaced the artifact.
type Refined struct {
	RunID     uuid.UUID       `json:"run_id"`
	Iteration int             `json:"iteration"`
	Sender    string          `json:"sender,omitempty"`
	Artifact  string          `json:"artifact"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Refined) runEvent() {}

// MarshalJSON implements custom JSON marshaling for Refined
func (r Refined) MarshalJSON() ([]byte, error) {
	result := refinedJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", r.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "iteration", r.Iteration)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "artifact", r.Artifact)
	if err != nil {
		return nil, err
	}

	return setCommonFields(result, r.Sender, r.Timestamp, r.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Refined
func (r *Refined) UnmarshalJSON(data []byte) error {
	body, err := eventBody(data, "refined")
	if err != nil {
		return err
	}

	if err := r.RunID.UnmarshalText([]byte(body.runID)); err != nil {
		return fmt.Errorf("invalid run_id: %w", err)
	}

	artifact := gjson.GetBytes(data, "artifact")
	if !artifact.Exists() {
		return fmt.Errorf("missing required field 'artifact'")
	}
	r.Artifact = artifact.String()
	r.Iteration = int(gjson.GetBytes(data, "iteration").Int())

	r.Sender = body.sender
	r.Timestamp = body.timestamp
	r.Meta = body.meta
	return nil
}

// Checked is emitted once per post-refinement check with its output.
type Checked struct {
	RunID     uuid.UUID       `json:"run_id"`
	Sender    string          `json:"sender,omitempty"`
	Output    string          `json:"output"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Checked) runEvent() {}

// MarshalJSON implements custom JSON marshaling for Checked
func (c Checked) MarshalJSON() ([]byte, error) {
	result := checkedJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", c.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "output", c.Output)
	if err != nil {
		return nil, err
	}

	return setCommonFields(result, c.Sender, c.Timestamp, c.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Checked
func (c *Checked) UnmarshalJSON(data []byte) error {
	body, err := eventBody(data, "checked")
	if err != nil {
		return err
	}

	if err := c.RunID.UnmarshalText([]byte(body.runID)); err != nil {
		return fmt.Errorf("invalid run_id: %w", err)
	}

	output := gjson.GetBytes(data, "output")
	if !output.Exists() {
		return fmt.Errorf("missing required field 'output'")
	}
	c.Output = output.String()

	c.Sender = body.sender
	c.Timestamp = body.timestamp
	c.Meta = body.meta
	return nil
}

// Terminated is emitted when a run reaches one of its terminal states. It is
// the last event of a successful run.
type Terminated struct {
	RunID      uuid.UUID             `json:"run_id"`
	Iterations int                   `json:"iterations"`
	Reason     api.TerminationReason `json:"reason"`
	Artifact   string                `json:"artifact"`
	Timestamp  strfmt.DateTime       `json:"timestamp,omitempty"`
	Meta       gjson.Result          `json:"meta,omitempty"`
}

func (Terminated) runEvent() {}

// MarshalJSON implements custom JSON marshaling for Terminated
func (t Terminated) MarshalJSON() ([]byte, error) {
	result := terminatedJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", t.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "iterations", t.Iterations)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "reason", t.Reason.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "artifact", t.Artifact)
	if err != nil {
		return nil, err
	}

	return setCommonFields(result, "", t.Timestamp, t.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Terminated
func (t *Terminated) UnmarshalJSON(data []byte) error {
	body, err := eventBody(data, "terminated")
	if err != nil {
		return err
	}

	if err := t.RunID.UnmarshalText([]byte(body.runID)); err != nil {
		return fmt.Errorf("invalid run_id: %w", err)
	}

	reason := gjson.GetBytes(data, "reason")
	if !reason.Exists() {
		return fmt.Errorf("missing required field 'reason'")
	}
	if err := t.Reason.UnmarshalText([]byte(reason.String())); err != nil {
		return fmt.Errorf("invalid reason: %w", err)
	}

	artifact := gjson.GetBytes(data, "artifact")
	if !artifact.Exists() {
		return fmt.Errorf("missing required field 'artifact'")
	}
	t.Artifact = artifact.String()
	t.Iterations = int(gjson.GetBytes(data, "iterations").Int())

	t.Timestamp = body.timestamp
	t.Meta = body.meta
	return nil
}

// Error is emitted when a capability invocation fails and the run aborts.
// It preserves the failing step alongside the cause.
type Error struct {
	RunID     uuid.UUID       `json:"run_id"`
	Step      api.Step        `json:"step"`
	Err       error           `json:"error"`
	Sender    string          `json:"sender,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Error) runEvent() {}

func (e Error) Error() string {
	errStr := "<nil>"
	if e.Err != nil {
		errStr = e.Err.Error()
	}
	return fmt.Sprintf("%s step=%s run_id=%s", errStr, e.Step, e.RunID)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e Error) Unwrap() error {
	return e.Err
}

// MarshalJSON implements custom JSON marshaling for Error
func (e Error) MarshalJSON() ([]byte, error) {
	result := errorJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", e.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "step", e.Step.String())
	if err != nil {
		return nil, err
	}

	if e.Err != nil {
		result, err = sjson.SetBytes(result, "error", e.Err.Error())
		if err != nil {
			return nil, err
		}
	}

	return setCommonFields(result, e.Sender, e.Timestamp, e.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Error
func (e *Error) UnmarshalJSON(data []byte) error {
	body, err := eventBody(data, "error")
	if err != nil {
		return err
	}

	if err := e.RunID.UnmarshalText([]byte(body.runID)); err != nil {
		return fmt.Errorf("invalid run_id: %w", err)
	}

	step := gjson.GetBytes(data, "step")
	if !step.Exists() {
		return fmt.Errorf("missing required field 'step'")
	}
	if err := e.Step.UnmarshalText([]byte(step.String())); err != nil {
		return fmt.Errorf("invalid step: %w", err)
	}

	errMsg := gjson.GetBytes(data, "error")
	if !errMsg.Exists() {
		return errors.New("missing required field 'error'")
	}
	e.Err = errors.New(errMsg.String())

	e.Sender = body.sender
	e.Timestamp = body.timestamp
	e.Meta = body.meta
	return nil
}

type commonFields struct {
	runID     string
	sender    string
	timestamp strfmt.DateTime
	meta      gjson.Result
}

func eventBody(data []byte, expectType string) (commonFields, error) {
	var body commonFields

	if !gjson.ValidBytes(data) {
		return body, fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != expectType {
		return body, fmt.Errorf("missing or invalid type, expected %q", expectType)
	}

	runID := gjson.GetBytes(data, "run_id")
	if !runID.Exists() {
		return body, fmt.Errorf("missing required field 'run_id'")
	}
	body.runID = runID.String()

	if sender := gjson.GetBytes(data, "sender"); sender.Exists() {
		body.sender = sender.String()
	}

	if timestamp := gjson.GetBytes(data, "timestamp"); timestamp.Exists() {
		if err := body.timestamp.UnmarshalText([]byte(timestamp.String())); err != nil {
			return body, fmt.Errorf("invalid timestamp: %w", err)
		}
	}

	if meta := gjson.GetBytes(data, "meta"); meta.Exists() {
		body.meta = meta
	}

	return body, nil
}

func setCommonFields(result []byte, sender string, timestamp strfmt.DateTime, meta gjson.Result) ([]byte, error) {
	var err error
	if sender != "" {
		result, err = sjson.SetBytes(result, "sender", sender)
		if err != nil {
			return nil, err
		}
	}

	if !timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	if meta.Exists() {
		result, err = sjson.SetRawBytes(result, "meta", []byte(meta.Raw))
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// ToJSON serializes an event with its type marker for transport.
func ToJSON(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON deserializes an event previously produced by ToJSON, dispatching
// on the type marker.
func FromJSON(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}

	switch tpe := gjson.GetBytes(data, "type").String(); tpe {
	case "produced":
		var e Produced
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case "critiqued":
		var e Critiqued
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case "refined":
		var e Refined
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case "checked":
		var e Checked
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case "terminated":
		var e Terminated
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case "error":
		var e Error
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", tpe)
	}
}
