// Package session holds the single-document conversation state machine:
// which file is loaded, whether extraction/analysis is in flight, the
// analysis result, and the chat transcript. State lives only in memory;
// a reset discards everything.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/legal-lens/api/internal/models"
)

type State int

const (
	StateEmpty State = iota
	StateExtracting
	StateReady
	StateAnalyzing
	StateAnalyzed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateExtracting:
		return "extracting"
	case StateReady:
		return "ready"
	case StateAnalyzing:
		return "analyzing"
	case StateAnalyzed:
		return "analyzed"
	default:
		return "unknown"
	}
}

var (
	ErrBusy         = errors.New("another operation is in flight")
	ErrInvalidState = errors.New("operation not allowed in current state")
)

// Controller enforces the session transitions. Only one extraction, analysis
// or chat request may be in flight at a time.
type Controller struct {
	mu sync.Mutex

	id           string
	state        State
	fileName     string
	documentText string
	analysis     *models.Analysis
	transcript   []models.ChatMessage
	chatLoading  bool
	lastError    string
}

func NewController() *Controller {
	return &Controller{
		id:    uuid.NewString(),
		state: StateEmpty,
	}
}

func (c *Controller) ID() string {
	return c.id
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) FileName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fileName
}

func (c *Controller) DocumentText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.documentText
}

func (c *Controller) Analysis() *models.Analysis {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.analysis
}

// Transcript returns a copy of the chat history.
func (c *Controller) Transcript() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatMessage, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// BeginExtraction starts loading a new file. Selecting a file discards any
// previous analysis and transcript.
func (c *Controller) BeginExtraction(fileName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateExtracting || c.state == StateAnalyzing || c.chatLoading {
		return ErrBusy
	}

	c.fileName = fileName
	c.documentText = ""
	c.analysis = nil
	c.transcript = nil
	c.lastError = ""
	c.state = StateExtracting
	return nil
}

func (c *Controller) CompleteExtraction(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateExtracting {
		return fmt.Errorf("%w: %s", ErrInvalidState, c.state)
	}

	c.documentText = text
	c.state = StateReady
	return nil
}

// FailExtraction discards the file and returns to empty, keeping the error
// message for display.
func (c *Controller) FailExtraction(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateExtracting {
		return
	}

	c.fileName = ""
	c.lastError = err.Error()
	c.state = StateEmpty
}

func (c *Controller) BeginAnalysis() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chatLoading {
		return ErrBusy
	}
	if c.state != StateReady && c.state != StateAnalyzed {
		return fmt.Errorf("%w: %s", ErrInvalidState, c.state)
	}

	c.lastError = ""
	c.state = StateAnalyzing
	return nil
}

func (c *Controller) CompleteAnalysis(analysis *models.Analysis) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAnalyzing {
		return fmt.Errorf("%w: %s", ErrInvalidState, c.state)
	}

	c.analysis = analysis
	c.state = StateAnalyzed
	return nil
}

// FailAnalysis returns to ready so the user can retry.
func (c *Controller) FailAnalysis(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAnalyzing {
		return
	}

	c.lastError = err.Error()
	c.state = StateReady
}

// BeginQuestion appends the user turn immediately and marks the chat as
// loading. Exactly one assistant turn follows via CompleteAnswer or
// FailAnswer.
func (c *Controller) BeginQuestion(question string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAnalyzed {
		return fmt.Errorf("%w: %s", ErrInvalidState, c.state)
	}
	if c.chatLoading {
		return ErrBusy
	}

	c.transcript = append(c.transcript, models.ChatMessage{
		Role:    models.RoleUser,
		Content: question,
	})
	c.chatLoading = true
	return nil
}

func (c *Controller) CompleteAnswer(answer string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.chatLoading {
		return fmt.Errorf("%w: no question in flight", ErrInvalidState)
	}

	c.transcript = append(c.transcript, models.ChatMessage{
		Role:    models.RoleAssistant,
		Content: answer,
	})
	c.chatLoading = false
	return nil
}

// FailAnswer records the failure as an assistant turn so the transcript
// always gains exactly one reply per question.
func (c *Controller) FailAnswer(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.chatLoading {
		return
	}

	c.transcript = append(c.transcript, models.ChatMessage{
		Role:    models.RoleAssistant,
		Content: fmt.Sprintf("Sorry, I encountered an error: %v", err),
	})
	c.chatLoading = false
}

func (c *Controller) ChatLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chatLoading
}

// Reset discards all document, analysis and chat state unconditionally, even
// mid-operation. A late completion from a discarded request is rejected by
// the state checks above.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fileName = ""
	c.documentText = ""
	c.analysis = nil
	c.transcript = nil
	c.chatLoading = false
	c.lastError = ""
	c.state = StateEmpty
}
