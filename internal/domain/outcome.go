package domain

// ExecutionToken identifies one in-flight job on the judge
type ExecutionToken string

// ExecutionStatus is the normalized lifecycle state of a judge job
type ExecutionStatus string

const (
	ExecutionQueued     ExecutionStatus = "QUEUED"
	ExecutionProcessing ExecutionStatus = "PROCESSING"
	ExecutionCompleted  ExecutionStatus = "COMPLETED"
	ExecutionFailed     ExecutionStatus = "FAILED"
)

// Judge status ids. Anything above StatusIDProcessing is terminal.
const (
	StatusIDInQueue           = 1
	StatusIDProcessing        = 2
	StatusIDAccepted          = 3
	StatusIDWrongAnswer       = 4
	StatusIDTimeLimitExceeded = 5
	StatusIDCompilationError  = 6
)

// JudgeRequest is a single run dispatched to the judge
type JudgeRequest struct {
	SourceCode     string
	LanguageID     LanguageID
	Stdin          string
	ExpectedOutput *string
	Limits         Limits
}

// ExecutionOutcome is the normalized result of one judge job. Text fields are
// empty while the status is non-terminal.
type ExecutionOutcome struct {
	Status        ExecutionStatus `json:"status"`
	StatusID      int             `json:"status_id"`
	Description   string          `json:"description"`
	Stdout        string          `json:"stdout"`
	Stderr        string          `json:"stderr"`
	CompileOutput string          `json:"compile_output"`
	Message       string          `json:"message"`
	TimeSeconds   float64         `json:"time"`
	MemoryKB      int64           `json:"memory"`
}

func (o ExecutionOutcome) IsTerminal() bool {
	return o.Status == ExecutionCompleted || o.Status == ExecutionFailed
}

// Accepted reports whether the judge itself accepted the run
func (o ExecutionOutcome) Accepted() bool {
	return o.Status == ExecutionCompleted && o.StatusID == StatusIDAccepted
}

// Diagnostics returns the most specific failure text the judge reported
func (o ExecutionOutcome) Diagnostics() string {
	switch {
	case o.CompileOutput != "":
		return o.CompileOutput
	case o.Stderr != "":
		return o.Stderr
	case o.Message != "":
		return o.Message
	default:
		return o.Description
	}
}
